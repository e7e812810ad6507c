package window

import (
	"fmt"
)

type ItemsFormatter struct{}

func (f ItemsFormatter) FileExt() string {
	return ".items"
}

func (f ItemsFormatter) PatternName(p *Pattern) string {
	return p.Items.String()
}

func (f ItemsFormatter) FormatPattern(p *Pattern) string {
	return fmt.Sprintf("%d\t%v", p.Support, p.Items)
}
