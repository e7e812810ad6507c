package mfci

import (
	"cmp"
	"slices"
)

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

import (
	"github.com/timtadh/cfistream/itemset"
)

// Entry is one row of the content table: a closed itemset of the current
// window together with its support and the cids of its immediate closed
// sub and supersets in the closed itemset lattice.
type Entry[T cmp.Ordered] struct {
	Cid                      int
	Itemset                  *itemset.Itemset[T]
	Support                  int
	ImmediateClosedSubsets   []int
	ImmediateClosedSupersets []int
}

// ContentTable holds one Entry per closed itemset, addressable by cid and
// iterable in insertion order.
type ContentTable[T cmp.Ordered] struct {
	entries *linkedhashmap.Map
	nextCid int
}

func NewContentTable[T cmp.Ordered]() *ContentTable[T] {
	return &ContentTable[T]{entries: linkedhashmap.New()}
}

// NewEntry creates an entry for the given itemset and assigns it a fresh
// cid.
func (t *ContentTable[T]) NewEntry(x *itemset.Itemset[T]) *Entry[T] {
	e := &Entry[T]{Cid: t.nextCid, Itemset: x}
	t.nextCid++
	t.entries.Put(e.Cid, e)
	return e
}

func (t *ContentTable[T]) Get(cid int) *Entry[T] {
	if v, has := t.entries.Get(cid); has {
		return v.(*Entry[T])
	}
	return nil
}

// Delete removes an entry and unlinks it from its immediate closed sub and
// supersets.
func (t *ContentTable[T]) Delete(cid int) {
	e := t.Get(cid)
	if e == nil {
		return
	}
	for _, id := range e.ImmediateClosedSubsets {
		if s := t.Get(id); s != nil {
			s.ImmediateClosedSupersets = removeCid(s.ImmediateClosedSupersets, cid)
		}
	}
	for _, id := range e.ImmediateClosedSupersets {
		if s := t.Get(id); s != nil {
			s.ImmediateClosedSubsets = removeCid(s.ImmediateClosedSubsets, cid)
		}
	}
	t.entries.Remove(cid)
}

// removeCid drops the first occurrence of cid.
func removeCid(cids []int, cid int) []int {
	for i, c := range cids {
		if c == cid {
			return append(cids[:i], cids[i+1:]...)
		}
	}
	return cids
}

func (t *ContentTable[T]) SupportByCid(cid int) int {
	if e := t.Get(cid); e != nil {
		return e.Support
	}
	return -1
}

// AddImmediateClosedSubset registers cidNew as an immediate closed subset
// of cidTarget. Subsets which stop being immediate are dropped. Idempotent
// on duplicates.
func (t *ContentTable[T]) AddImmediateClosedSubset(cidTarget, cidNew int) {
	eTarget := t.Get(cidTarget)
	eNew := t.Get(cidNew)
	if slices.Contains(eTarget.ImmediateClosedSubsets, cidNew) {
		return
	}
	var obsolete []int
	for _, cid := range eTarget.ImmediateClosedSubsets {
		if e := t.Get(cid); e != nil && eNew.Itemset.Superset(e.Itemset) {
			obsolete = append(obsolete, cid)
		}
	}
	eTarget.ImmediateClosedSubsets = append(eTarget.ImmediateClosedSubsets, cidNew)
	for _, cid := range obsolete {
		eTarget.ImmediateClosedSubsets = removeCid(eTarget.ImmediateClosedSubsets, cid)
	}
}

// AddImmediateClosedSuperset registers cidNew as an immediate closed
// superset of cidTarget. Supersets which stop being immediate are dropped.
// Idempotent on duplicates.
func (t *ContentTable[T]) AddImmediateClosedSuperset(cidTarget, cidNew int) {
	eTarget := t.Get(cidTarget)
	eNew := t.Get(cidNew)
	if slices.Contains(eTarget.ImmediateClosedSupersets, cidNew) {
		return
	}
	var obsolete []int
	for _, cid := range eTarget.ImmediateClosedSupersets {
		if e := t.Get(cid); e != nil && e.Itemset.Superset(eNew.Itemset) {
			obsolete = append(obsolete, cid)
		}
	}
	eTarget.ImmediateClosedSupersets = append(eTarget.ImmediateClosedSupersets, cidNew)
	for _, cid := range obsolete {
		eTarget.ImmediateClosedSupersets = removeCid(eTarget.ImmediateClosedSupersets, cid)
	}
}

func (t *ContentTable[T]) Size() int {
	return t.entries.Size()
}

func (t *ContentTable[T]) Contains(x *itemset.Itemset[T]) bool {
	return t.GetByItemset(x) != nil
}

func (t *ContentTable[T]) GetByItemset(x *itemset.Itemset[T]) *Entry[T] {
	it := t.entries.Iterator()
	for it.Next() {
		e := it.Value().(*Entry[T])
		if e.Itemset.Equals(x) {
			return e
		}
	}
	return nil
}

// HasPath reports whether to is reachable from from along immediate closed
// superset edges.
func (t *ContentTable[T]) HasPath(from, to *Entry[T]) bool {
	for _, cid := range from.ImmediateClosedSupersets {
		e := t.Get(cid)
		if e == nil {
			continue
		}
		if to.Itemset.Superset(e.Itemset) &&
			(t.HasPath(e, to) || slices.Contains(from.ImmediateClosedSupersets, to.Cid)) {
			return true
		}
	}
	return false
}

func (t *ContentTable[T]) ClosedItemsets() []*itemset.Itemset[T] {
	return t.ClosedFrequentItemsets(0)
}

func (t *ContentTable[T]) ClosedFrequentItemsets(min int) []*itemset.Itemset[T] {
	cfi := make([]*itemset.Itemset[T], 0, t.entries.Size())
	it := t.entries.Iterator()
	for it.Next() {
		e := it.Value().(*Entry[T])
		if e.Support >= min {
			cfi = append(cfi, e.Itemset)
		}
	}
	return cfi
}

// Support of an arbitrary itemset is the support of its smallest closed
// superset in the table, 0 when no entry contains it.
func (t *ContentTable[T]) Support(x *itemset.Itemset[T]) int {
	var minEntry *Entry[T]
	it := t.entries.Iterator()
	for it.Next() {
		e := it.Value().(*Entry[T])
		if e.Itemset.Superset(x) && (minEntry == nil || e.Itemset.Size() <= minEntry.Itemset.Size()) {
			minEntry = e
			if minEntry.Itemset.Equals(x) {
				return minEntry.Support
			}
		}
	}
	if minEntry != nil {
		return minEntry.Support
	}
	return 0
}
