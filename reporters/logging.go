package reporters

import (
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/cfistream/window"
)

type Log struct {
	fmtr   window.Formatter
	level  string
	prefix string
	count  int
}

func NewLog(fmtr window.Formatter, level, prefix string) *Log {
	if level == "" {
		level = "INFO"
	}
	return &Log{fmtr: fmtr, level: level, prefix: prefix}
}

func (lr *Log) Report(p *window.Pattern) error {
	lr.count++
	if lr.prefix != "" {
		errors.Logf(lr.level, "%s %v (support %d) %v", lr.prefix, lr.count, p.Support, lr.fmtr.PatternName(p))
	} else {
		errors.Logf(lr.level, "%v (support %d) %v", lr.count, p.Support, lr.fmtr.PatternName(p))
	}
	return nil
}

func (lr *Log) Close() error {
	return nil
}
