package window_test

import "math/rand"
import "testing"

import "github.com/stretchr/testify/assert"

import (
	"github.com/timtadh/cfistream/diu"
	"github.com/timtadh/cfistream/itemset"
	"github.com/timtadh/cfistream/mfci"
	"github.com/timtadh/cfistream/verify"
	"github.com/timtadh/cfistream/window"
)

const repetitions = 25

func diuExample() []*itemset.Itemset[rune] {
	return []*itemset.Itemset[rune]{
		itemset.New('C', 'D'),
		itemset.New('A', 'B'),
		itemset.New('A', 'B', 'C'),
		itemset.New('A', 'B', 'C'),
	}
}

func mfciExample() []*itemset.Itemset[rune] {
	return []*itemset.Itemset[rune]{
		itemset.New('A', 'C', 'T', 'W'),
		itemset.New('C', 'D', 'W'),
		itemset.New('A', 'C', 'T', 'W'),
		itemset.New('A', 'C', 'D', 'W'),
		itemset.New('A', 'C', 'D', 'T', 'W'),
		itemset.New('C', 'D', 'T'),
	}
}

func lectureExample() []*itemset.Itemset[rune] {
	return []*itemset.Itemset[rune]{
		itemset.New('M', 'O', 'N', 'K', 'E', 'Y'),
		itemset.New('D', 'O', 'N', 'K', 'E', 'Y'),
		itemset.New('M', 'A', 'K', 'E'),
		itemset.New('M', 'U', 'C', 'K', 'Y'),
		itemset.New('C', 'O', 'K', 'E'),
	}
}

func lexOrderExample() []*itemset.Itemset[rune] {
	return []*itemset.Itemset[rune]{
		itemset.New('1', '2'),
		itemset.New('2', '3'),
		itemset.New('3'),
		itemset.New('1', '2'),
	}
}

// winSupport counts the window transactions containing x.
func winSupport(win []*itemset.Itemset[rune], x *itemset.Itemset[rune]) int {
	sup := 0
	for _, tx := range win {
		if tx.Superset(x) {
			sup++
		}
	}
	return sup
}

// closedOracle computes the closed itemsets of a window by brute force:
// every closed itemset is an intersection of the transactions containing
// it, and it is closed iff no single item extension has equal support.
func closedOracle(win []*itemset.Itemset[rune]) map[string]int {
	cand := make(map[string]*itemset.Itemset[rune])
	for _, tx := range win {
		cand[tx.String()] = tx
	}
	for {
		fresh := make(map[string]*itemset.Itemset[rune])
		for _, a := range cand {
			for _, b := range cand {
				in := a.Intersect(b)
				if in.Size() == 0 {
					continue
				}
				if _, has := cand[in.String()]; !has {
					fresh[in.String()] = in
				}
			}
		}
		if len(fresh) == 0 {
			break
		}
		for k, v := range fresh {
			cand[k] = v
		}
	}
	closed := make(map[string]int)
	for k, x := range cand {
		sup := winSupport(win, x)
		isClosed := true
		for _, tx := range win {
			for _, item := range tx.Items() {
				if x.Has(item) {
					continue
				}
				y := x.Copy()
				y.Add(item)
				if winSupport(win, y) == sup {
					isClosed = false
				}
			}
		}
		if isClosed {
			closed[k] = sup
		}
	}
	return closed
}

func checkEngine(t *assert.Assertions, name string, alg window.Algorithm[rune], expected map[string]int, w int) {
	closed := alg.ClosedItemsets()
	t.Equal(len(expected), len(closed), "%v: wrong closed itemset count (window %d)", name, w)
	for _, x := range closed {
		sup, has := expected[x.String()]
		t.True(has, "%v: unexpected closed itemset %v", name, x)
		t.Equal(sup, alg.Support(x), "%v: wrong support for %v", name, x)
		t.True(alg.Support(x) <= w, "%v: support of %v exceeds the window size", name, x)
	}
}

func slideWindow(t *assert.Assertions, tdb []*itemset.Itemset[rune], w int) {
	d := diu.NewTree[rune]()
	m := mfci.New[rune]()
	var win []*itemset.Itemset[rune]
	for i, tx := range tdb {
		if i >= w {
			old := tdb[i-w]
			t.Nil(d.Delete(old))
			t.Nil(m.Delete(old))
			win = win[1:]
		}
		d.Add(tx)
		m.Add(tx)
		win = append(win, tx)
		expected := closedOracle(win)
		checkEngine(t, "diu", d, expected, w)
		checkEngine(t, "mfci", m, expected, w)
	}
}

func slideAllWindows(t *assert.Assertions, tdb []*itemset.Itemset[rune]) {
	for w := 1; w <= len(tdb); w++ {
		slideWindow(t, tdb, w)
	}
}

func TestDIUExampleAllWindows(x *testing.T) {
	slideAllWindows(assert.New(x), diuExample())
}

func TestMFCIExampleAllWindows(x *testing.T) {
	slideAllWindows(assert.New(x), mfciExample())
}

func TestLectureExampleAllWindows(x *testing.T) {
	slideAllWindows(assert.New(x), lectureExample())
}

func TestLexOrderExampleAllWindows(x *testing.T) {
	slideAllWindows(assert.New(x), lexOrderExample())
}

func TestRandomizedStreams(x *testing.T) {
	t := assert.New(x)
	rng := rand.New(rand.NewSource(42))
	streams := [][]*itemset.Itemset[rune]{
		diuExample(),
		mfciExample(),
		lectureExample(),
		lexOrderExample(),
	}
	for _, stream := range streams {
		for rep := 0; rep < repetitions; rep++ {
			tdb := make([]*itemset.Itemset[rune], len(stream))
			copy(tdb, stream)
			rng.Shuffle(len(tdb), func(i, j int) {
				tdb[i], tdb[j] = tdb[j], tdb[i]
			})
			slideAllWindows(t, tdb)
		}
	}
}

func TestVerifyEngine(x *testing.T) {
	t := assert.New(x)
	alg := verify.New[rune](diu.NewTree[rune](), mfci.New[rune]())
	tdb := mfciExample()
	w := 3
	for i, tx := range tdb {
		if i >= w {
			t.Nil(alg.Delete(tdb[i-w]))
		}
		alg.Add(tx)
		t.True(len(alg.ClosedItemsets()) > 0)
		t.True(alg.Support(itemset.New('C')) > 0)
	}
}

// brokenShadow claims one support wrong so the lockstep checker must trip.
type brokenShadow struct {
	window.Algorithm[rune]
}

func (b *brokenShadow) Support(x *itemset.Itemset[rune]) int {
	return b.Algorithm.Support(x) + 1
}

func TestVerifyDetectsDivergence(x *testing.T) {
	t := assert.New(x)
	alg := verify.New[rune](diu.NewTree[rune](), &brokenShadow{mfci.New[rune]()})
	alg.Add(itemset.New('A', 'B'))
	t.Panics(func() {
		alg.Support(itemset.New('A', 'B'))
	})
}

func TestRoundTrip(x *testing.T) {
	t := assert.New(x)
	d := diu.NewTree[rune]()
	m := mfci.New[rune]()
	tdb := lectureExample()
	for _, tx := range tdb {
		d.Add(tx)
		m.Add(tx)
	}
	for _, tx := range tdb {
		t.Nil(d.Delete(tx))
		t.Nil(m.Delete(tx))
	}
	t.Equal(0, len(d.ClosedItemsets()))
	t.Equal(0, len(m.ClosedItemsets()))
}
