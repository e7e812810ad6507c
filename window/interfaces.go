package window

import (
	"cmp"
)

import (
	"github.com/timtadh/cfistream/itemset"
)

// Algorithm is the contract shared by the sliding window engines. A
// transaction enters the window with Add and leaves it again with Delete;
// between any two updates the closed itemsets of the current window can be
// queried. Adding the same itemset twice is meaningful: the window then
// holds two equal transactions. Delete requires that the itemset was
// previously added and not yet deleted a matching number of times; a
// violation is reported as an error and leaves the engine unusable.
type Algorithm[T cmp.Ordered] interface {
	Support(x *itemset.Itemset[T]) int
	Add(x *itemset.Itemset[T])
	Delete(x *itemset.Itemset[T]) error
	ClosedItemsets() []*itemset.Itemset[T]
	ClosedFrequentItemsets(t int) []*itemset.Itemset[T]
}

// A Pattern is a closed itemset together with its support in the current
// window.
type Pattern struct {
	Items   *itemset.Itemset[int32]
	Support int
}

type Reporter interface {
	Report(p *Pattern) error
	Close() error
}

type Formatter interface {
	FileExt() string
	PatternName(p *Pattern) string
	FormatPattern(p *Pattern) string
}
