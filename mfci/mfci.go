package mfci

import (
	"cmp"
	"slices"
)

import (
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/cfistream/itemset"
)

// MFCI incrementally maintains the closed itemsets of the sliding window in
// a content table whose entries are cross linked by immediate closed subset
// and superset edges, following "An efficient algorithm for incrementally
// mining frequent closed itemsets" by Yen et al.
type MFCI[T cmp.Ordered] struct {
	content *ContentTable[T]
	items   *ItemTable[T]
}

func New[T cmp.Ordered]() *MFCI[T] {
	return &MFCI[T]{
		content: NewContentTable[T](),
		items:   NewItemTable[T](),
	}
}

// generateClosedItemsets builds the temp table for a new transaction: one
// entry per distinct intersection of x with an existing closed itemset,
// largest first, carrying the support of the closed itemset it came from.
func (m *MFCI[T]) generateClosedItemsets(x *itemset.Itemset[T]) *tempTable[T] {
	tmp := newTempTable[T]()
	union := make(map[int]bool)
	for _, item := range x.Items() {
		cids := m.items.CIDs(item)
		for _, c := range cids {
			if union[c] {
				if e := tmp.findByClosureId(c); e != nil {
					e.itemset.Add(item)
				}
			} else {
				tmp.newEntry(c, itemset.New(item), 0, m.content.SupportByCid(c), false)
			}
		}
		for _, c := range cids {
			union[c] = true
		}
	}
	tmp.sort()
	tmp.merge()
	return tmp
}

// Add enters a new transaction into the window.
func (m *MFCI[T]) Add(x *itemset.Itemset[T]) {
	tmp := m.generateClosedItemsets(x)
	closureFlag := m.content.Contains(x)

	for _, e := range tmp.entries {
		closureEntry := m.content.Get(e.closureId)
		var entryOfX *Entry[T]
		if !e.itemset.Equals(closureEntry.Itemset) {
			// e.itemset is a new closed itemset
			entryOfX = m.content.NewEntry(e.itemset)
			e.cid = entryOfX.Cid

			m.content.AddImmediateClosedSuperset(entryOfX.Cid, closureEntry.Cid)
			m.content.AddImmediateClosedSubset(closureEntry.Cid, entryOfX.Cid)

			for _, item := range entryOfX.Itemset.Items() {
				m.items.Add(item, entryOfX.Cid)
			}
		} else {
			// e.itemset is already the closed itemset of closureEntry
			entryOfX = closureEntry
			e.cid = entryOfX.Cid
		}
		entryOfX.Support = closureEntry.Support + 1
	}

	if !tmp.contains(x) {
		entry := m.content.NewEntry(x)
		e := tmp.newEntry(-1, x, 0, 1, true)
		e.cid = entry.Cid
		entry.Support = 1
		for _, item := range x.Items() {
			m.items.Add(item, entry.Cid)
		}
	}

	// When the transaction was already a closed itemset the structural pass
	// below is skipped. This keeps the original implementation's deviation
	// from the paper.
	if closureFlag {
		return
	}

	for i := range tmp.entries {
		m.processAdd(tmp, i, x)
	}
}

// processAdd maintains the immediate closed sub/superset edges while
// walking the temp table from the largest entry down.
func (m *MFCI[T]) processAdd(tmp *tempTable[T], i int, newItemset *itemset.Itemset[T]) {
	x := tmp.entries[i]
	x.status = 1

	if i+1 >= len(tmp.entries) {
		return
	}

	closureEntry := m.content.Get(x.closureId)
	if x.closureId != -1 && closureEntry != nil && x.itemset.Equals(closureEntry.Itemset) {
		for _, xj := range tmp.entries[i+1:] {
			if x.itemset.Superset(xj.itemset) {
				xj.status = 1
			}
		}
		return
	}

	for j := i + 1; j < len(tmp.entries); j++ {
		xj := tmp.entries[j]
		if !x.itemset.Superset(xj.itemset) {
			continue
		}

		superflag := false
		contentEntry := m.content.Get(xj.cid)
		for _, s := range contentEntry.ImmediateClosedSupersets {
			if sup := m.content.Get(s); sup != nil && x.itemset.Superset(sup.Itemset) {
				superflag = true
			}
		}

		if xj.status == 0 || (!superflag && !newItemset.Equals(x.itemset)) {
			m.content.AddImmediateClosedSuperset(xj.cid, x.cid)
			m.content.AddImmediateClosedSubset(x.cid, xj.cid)
		}

		m.processAdd(tmp, j, newItemset)
	}
}

// closedSubsets collects the cids of all closed subsets of e by following
// the immediate closed subset edges transitively.
func (m *MFCI[T]) closedSubsets(e *Entry[T]) map[int]bool {
	subsets := make(map[int]bool)
	m.collectClosedSubsets(e, subsets)
	return subsets
}

func (m *MFCI[T]) collectClosedSubsets(e *Entry[T], acc map[int]bool) {
	for _, s := range e.ImmediateClosedSubsets {
		if acc[s] {
			continue
		}
		acc[s] = true
		if sub := m.content.Get(s); sub != nil {
			m.collectClosedSubsets(sub, acc)
		}
	}
}

// Delete removes one occurrence of the transaction x from the window.
func (m *MFCI[T]) Delete(x *itemset.Itemset[T]) error {
	entryOfX := m.content.GetByItemset(x)
	if entryOfX == nil {
		return errors.Errorf("delete of %v which is not a transaction in the current window", x)
	}

	subsetsSet := m.closedSubsets(entryOfX)
	subsetsSet[entryOfX.Cid] = true
	status := make(map[int]int)
	lengths := make(map[int]int)
	for s := range subsetsSet {
		e := m.content.Get(s)
		e.Support--
		status[s] = 0
		lengths[s] = e.Itemset.Size()
	}
	delete(subsetsSet, entryOfX.Cid)

	subsets := make([]int, 0, len(subsetsSet))
	for s := range subsetsSet {
		subsets = append(subsets, s)
	}
	slices.SortFunc(subsets, func(a, b int) int {
		if c := cmp.Compare(lengths[b], lengths[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	m.processDelete(entryOfX.Cid, status, subsets)
	return nil
}

// processDelete decides for every affected closed itemset whether it stays
// closed, collapses into its unique immediate superset, or vanishes.
func (m *MFCI[T]) processDelete(cid int, status map[int]int, subsets []int) {
	e := m.content.Get(cid)
	if e == nil || status[cid] == 1 {
		return
	}
	status[cid] = 1

	if e.Support == 0 {
		m.content.Delete(e.Cid)
		m.items.Delete(e.Cid, e.Itemset)
		for _, s := range subsets {
			m.processDelete(s, status, nil)
		}
		return
	}

	if len(e.ImmediateClosedSupersets) == 1 {
		y := m.content.Get(e.ImmediateClosedSupersets[0])
		if y != nil && e.Support-y.Support == 0 {
			// e collapsed into y, splice it out of the lattice
			for _, s := range e.ImmediateClosedSubsets {
				flag := false
				eS := m.content.Get(s)
				if eS == nil {
					continue
				}
				for _, r := range eS.ImmediateClosedSupersets {
					if r == e.Cid {
						continue
					}
					if eR := m.content.Get(r); eR != nil && m.content.HasPath(eR, y) {
						flag = true
					}
				}
				if !flag {
					eS.ImmediateClosedSupersets = append(eS.ImmediateClosedSupersets, y.Cid)
					y.ImmediateClosedSubsets = append(y.ImmediateClosedSubsets, eS.Cid)
				}
			}
			m.content.Delete(e.Cid)
			m.items.Delete(e.Cid, e.Itemset)
			for _, s := range subsets {
				m.processDelete(s, status, nil)
			}
			return
		}
	}

	// e stays closed, everything below it does too
	for s := range m.closedSubsets(e) {
		status[s] = 1
	}
}

func (m *MFCI[T]) Support(x *itemset.Itemset[T]) int {
	return m.content.Support(x)
}

func (m *MFCI[T]) ClosedItemsets() []*itemset.Itemset[T] {
	return m.content.ClosedItemsets()
}

func (m *MFCI[T]) ClosedFrequentItemsets(t int) []*itemset.Itemset[T] {
	return m.content.ClosedFrequentItemsets(t)
}
