package reporters

import (
	"github.com/timtadh/cfistream/window"
)

type Chain struct {
	Reporters []window.Reporter
}

func (r *Chain) Report(p *window.Pattern) error {
	for _, rpt := range r.Reporters {
		err := rpt.Report(p)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Chain) Close() error {
	for _, rpt := range r.Reporters {
		err := rpt.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
