package reporters

import (
	"fmt"
	"io"
	"os"
)

import (
	"github.com/timtadh/cfistream/config"
	"github.com/timtadh/cfistream/window"
)

type File struct {
	config   *config.Config
	fmtr     window.Formatter
	patterns io.WriteCloser
}

func NewFile(c *config.Config, fmtr window.Formatter, patternsFilename string) (*File, error) {
	patterns, err := os.Create(c.OutputFile(patternsFilename + fmtr.FileExt()))
	if err != nil {
		return nil, err
	}
	r := &File{
		config:   c,
		fmtr:     fmtr,
		patterns: patterns,
	}
	return r, nil
}

func (r *File) Report(p *window.Pattern) error {
	_, err := fmt.Fprintln(r.patterns, r.fmtr.FormatPattern(p))
	return err
}

func (r *File) Close() error {
	return r.patterns.Close()
}
