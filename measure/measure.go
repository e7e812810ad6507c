package measure

import (
	"cmp"
	"fmt"
	"io"
	"time"
)

import (
	"github.com/timtadh/cfistream/itemset"
	"github.com/timtadh/cfistream/stats"
	"github.com/timtadh/cfistream/window"
)

// A Result holds the cumulative wall clock seconds sampled every windowSize
// transactions of a measurement run.
type Result struct {
	Steps   []int
	Seconds []float64
}

// Measure feeds the transaction database through the algorithm with the
// sliding window protocol: once the window is full every add is preceded by
// the delete of the transaction falling out of the window. The cumulative
// wall clock time is sampled every windowSize transactions.
func Measure[T cmp.Ordered](alg window.Algorithm[T], tdb []*itemset.Itemset[T], windowSize int) (*Result, error) {
	r := &Result{}
	start := time.Now()
	for i, tx := range tdb {
		if i%windowSize == 0 {
			r.Steps = append(r.Steps, i)
			r.Seconds = append(r.Seconds, time.Since(start).Seconds())
		}
		if i >= windowSize {
			if err := alg.Delete(tdb[i-windowSize]); err != nil {
				return nil, err
			}
		}
		alg.Add(tx)
	}
	r.Steps = append(r.Steps, len(tdb))
	r.Seconds = append(r.Seconds, time.Since(start).Seconds())
	return r, nil
}

// Write serializes the result as "step seconds" lines.
func (r *Result) Write(w io.Writer) error {
	for i := range r.Steps {
		if _, err := fmt.Fprintf(w, "%d %g\n", r.Steps[i], r.Seconds[i]); err != nil {
			return err
		}
	}
	return nil
}

// Shifts returns the time increments between consecutive samples.
func (r *Result) Shifts() []float64 {
	shifts := make([]float64, 0, len(r.Seconds))
	for i := 1; i < len(r.Seconds); i++ {
		shifts = append(shifts, r.Seconds[i]-r.Seconds[i-1])
	}
	return shifts
}

// Summary returns the mean and standard deviation of the per sample time
// increments.
func (r *Result) Summary() (mean, stddev float64) {
	shifts := r.Shifts()
	return stats.Mean(shifts), stats.Stddev(shifts)
}
