package mfci

import (
	"cmp"
	"slices"
)

import (
	"github.com/timtadh/cfistream/itemset"
)

// A tempEntry is one row of the scratch table built during Add: a candidate
// new closed itemset, the cid of the existing closed itemset it was
// intersected out of (closureId), its support, a processing status, and the
// cid it ends up with in the content table.
type tempEntry[T cmp.Ordered] struct {
	closureId int
	itemset   *itemset.Itemset[T]
	status    int
	support   int
	cid       int
}

type tempTable[T cmp.Ordered] struct {
	entries []*tempEntry[T]
}

func newTempTable[T cmp.Ordered]() *tempTable[T] {
	return &tempTable[T]{}
}

func (t *tempTable[T]) newEntry(closureId int, x *itemset.Itemset[T], status, support int, front bool) *tempEntry[T] {
	e := &tempEntry[T]{
		closureId: closureId,
		itemset:   x,
		status:    status,
		support:   support,
		cid:       -1,
	}
	if front {
		t.entries = slices.Insert(t.entries, 0, e)
	} else {
		t.entries = append(t.entries, e)
	}
	return e
}

func (t *tempTable[T]) findByClosureId(closureId int) *tempEntry[T] {
	for _, e := range t.entries {
		if e.closureId == closureId {
			return e
		}
	}
	return nil
}

// sort orders the entries by descending itemset size, itemsets of equal
// length lexicographically.
func (t *tempTable[T]) sort() {
	slices.SortStableFunc(t.entries, func(a, b *tempEntry[T]) int {
		if c := cmp.Compare(b.itemset.Size(), a.itemset.Size()); c != 0 {
			return c
		}
		return a.itemset.Compare(b.itemset)
	})
}

// merge collapses entries with equal itemsets onto the one with maximal
// support. sort must run first.
func (t *tempTable[T]) merge() {
	obsolete := make(map[int]bool)
	for i := 0; i+1 < len(t.entries); i++ {
		for j := i + 1; j < len(t.entries); j++ {
			a, b := t.entries[i], t.entries[j]
			if !a.itemset.Equals(b.itemset) {
				break
			}
			if a.support < b.support {
				obsolete[i] = true
				break
			}
			obsolete[j] = true
		}
	}
	if len(obsolete) == 0 {
		return
	}
	keep := t.entries[:0]
	for i, e := range t.entries {
		if !obsolete[i] {
			keep = append(keep, e)
		}
	}
	t.entries = keep
}

func (t *tempTable[T]) contains(x *itemset.Itemset[T]) bool {
	for _, e := range t.entries {
		if e.itemset.Equals(x) {
			return true
		}
	}
	return false
}
