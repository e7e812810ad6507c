package streamfci

import (
	"cmp"
)

import (
	"github.com/timtadh/cfistream/itemset"
)

// StreamFCI maintains the closed itemsets of the sliding window through a
// dynamic frequent pattern tree. Closed itemsets are derived from the tree
// on demand by intersection closure.
type StreamFCI[T cmp.Ordered] struct {
	tree *DFPTree[T]
}

func New[T cmp.Ordered]() *StreamFCI[T] {
	return &StreamFCI[T]{tree: NewDFPTree[T]()}
}

func (s *StreamFCI[T]) Add(x *itemset.Itemset[T]) {
	s.tree.Add(x)
}

func (s *StreamFCI[T]) Delete(x *itemset.Itemset[T]) error {
	return s.tree.Delete(x)
}

func (s *StreamFCI[T]) Support(x *itemset.Itemset[T]) int {
	return s.tree.Support(x)
}

func (s *StreamFCI[T]) ClosedItemsets() []*itemset.Itemset[T] {
	return s.tree.ClosedItemsets()
}

func (s *StreamFCI[T]) ClosedFrequentItemsets(t int) []*itemset.Itemset[T] {
	var frequent []*itemset.Itemset[T]
	for _, x := range s.tree.ClosedItemsets() {
		if s.tree.Support(x) >= t {
			frequent = append(frequent, x)
		}
	}
	return frequent
}
