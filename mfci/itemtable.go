package mfci

import (
	"cmp"
	"slices"
)

import (
	"github.com/timtadh/cfistream/itemset"
)

// ItemTable maps each item to the cids of the content table entries whose
// itemset contains it. Duplicate cids are never stored.
type ItemTable[T cmp.Ordered] struct {
	entries map[T][]int
}

func NewItemTable[T cmp.Ordered]() *ItemTable[T] {
	return &ItemTable[T]{entries: make(map[T][]int)}
}

func (t *ItemTable[T]) CIDs(item T) []int {
	return t.entries[item]
}

func (t *ItemTable[T]) Add(item T, cid int) {
	cids := t.entries[item]
	if slices.Contains(cids, cid) {
		return
	}
	t.entries[item] = append(cids, cid)
}

// Delete removes the cid from the lists of every item in x.
func (t *ItemTable[T]) Delete(cid int, x *itemset.Itemset[T]) {
	for _, item := range x.Items() {
		t.entries[item] = removeCid(t.entries[item], cid)
		if len(t.entries[item]) == 0 {
			delete(t.entries, item)
		}
	}
}
