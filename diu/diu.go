package diu

import (
	"cmp"
	"math"
	"slices"
)

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/timtadh/data-structures/errors"
)

import (
	"github.com/timtadh/cfistream/itemset"
)

// Tree is the direct update tree of the CFI-Stream algorithm by Jiang and
// Gruenwald. Every node below the root represents exactly one closed
// itemset of the current window. Each parent is a strict subset of its
// children and siblings are kept sorted by the first-seen (history) order
// of their items, which is what makes the candidate pruning during Add
// possible.
type Tree[T cmp.Ordered] struct {
	root       *node[T]
	history    map[T]int
	nextItemID int
}

type node[T cmp.Ordered] struct {
	itemset  *itemset.Itemset[T]
	support  int
	count    int
	children []*node[T]
	parent   *node[T]
}

func NewTree[T cmp.Ordered]() *Tree[T] {
	return &Tree[T]{
		root:    &node[T]{},
		history: make(map[T]int),
	}
}

func (t *Tree[T]) find(n *node[T], x *itemset.Itemset[T]) *node[T] {
	size := 0
	if n != t.root {
		size = n.itemset.Size()
	}
	if n != t.root && size == x.Size() && n.itemset.Equals(x) {
		return n
	}
	if size < x.Size() {
		for _, child := range n.children {
			if res := t.find(child, x); res != nil {
				return res
			}
		}
	}
	return nil
}

// Support returns the number of window transactions containing x. If a node
// represents x its support is stored, otherwise it is the sum over the
// immediate supersets of x in the tree.
func (t *Tree[T]) Support(x *itemset.Itemset[T]) int {
	if n := t.find(t.root, x); n != nil {
		return n.support
	}
	return t.supportIfNotContained(x)
}

func (t *Tree[T]) supportIfNotContained(x *itemset.Itemset[T]) int {
	sup := 0
	for _, superset := range t.findAllImmediateSupersets(x) {
		sup += superset.support
	}
	return sup
}

func (t *Tree[T]) findAllImmediateSupersets(x *itemset.Itemset[T]) []*node[T] {
	supersets := t.findAllSupersets(t.root, x, true)
	// different branches can hold subset comparable supersets, only the
	// minimal ones count
	obsolete := make(map[*node[T]]bool)
	for _, n1 := range supersets {
		if obsolete[n1] {
			continue
		}
		for _, n2 := range supersets {
			if n1 == n2 {
				continue
			}
			if n2.itemset.Size() < n1.itemset.Size() && n1.itemset.Superset(n2.itemset) {
				obsolete[n1] = true
				break
			}
		}
	}
	keep := supersets[:0]
	for _, n := range supersets {
		if !obsolete[n] {
			keep = append(keep, n)
		}
	}
	return keep
}

// findAllSupersets collects the nodes representing strict supersets of x.
// With earlyAbort set each branch stops at its first superset, which is
// enough when only the immediate supersets are of interest.
func (t *Tree[T]) findAllSupersets(n *node[T], x *itemset.Itemset[T], earlyAbort bool) []*node[T] {
	var supersets []*node[T]
	if n != t.root && n.itemset.Size() > x.Size() && n.itemset.Superset(x) {
		supersets = append(supersets, n)
		if earlyAbort {
			return supersets
		}
	}
	for _, child := range n.children {
		supersets = append(supersets, t.findAllSupersets(child, x, earlyAbort)...)
	}
	return supersets
}

// findAllSubsets collects the nodes whose itemset is a subset of x, x
// itself included when represented.
func (t *Tree[T]) findAllSubsets(n *node[T], x *itemset.Itemset[T]) []*node[T] {
	var subsets []*node[T]
	if n != t.root && x.Superset(n.itemset) {
		subsets = append(subsets, n)
	}
	for _, child := range n.children {
		if child.itemset.Size() <= x.Size() {
			subsets = append(subsets, t.findAllSubsets(child, x)...)
		}
	}
	return subsets
}

func (t *Tree[T]) findMinimumSuperset(n *node[T], x *itemset.Itemset[T]) *node[T] {
	if n != t.root && n.itemset.Size() >= x.Size() && n.itemset.Superset(x) {
		return n
	}
	// children are supersets of their parents, so once a superset is found
	// in a branch only the minimum among the branches matters
	var minNode *node[T]
	for _, child := range n.children {
		childMin := t.findMinimumSuperset(child, x)
		if minNode == nil || (childMin != nil && childMin.itemset.Size() < minNode.itemset.Size()) {
			minNode = childMin
		}
	}
	return minNode
}

// insertNode places a newly created node in the tree, re-parenting existing
// subset comparable children so the history order and the subset relation
// among siblings stay intact.
func (t *Tree[T]) insertNode(n *node[T]) {
	parent := t.root
	for found := true; found; {
		found = false
		for _, child := range parent.children {
			if child.itemset.CompareRanked(n.itemset, t.history) <= 0 && n.itemset.Superset(child.itemset) {
				parent = child
				found = true
				break
			}
		}
	}

	keep := parent.children[:0]
	for _, child := range parent.children {
		if child.itemset.CompareRanked(n.itemset, t.history) > 0 && child.itemset.Superset(n.itemset) {
			n.children = append(n.children, child)
			child.parent = n
		} else {
			keep = append(keep, child)
		}
	}
	parent.children = keep

	idx := 0
	for idx < len(parent.children) {
		if parent.children[idx].itemset.CompareRanked(n.itemset, t.history) > 0 {
			break
		}
		idx++
	}
	parent.children = slices.Insert(parent.children, idx, n)
	n.parent = parent
}

func (t *Tree[T]) insertNodes(cnew *treeset.Set) {
	for _, v := range cnew.Values() {
		t.insertNode(v.(*node[T]))
	}
}

// Add enters a new transaction into the window.
func (t *Tree[T]) Add(x *itemset.Itemset[T]) {
	for _, item := range x.Items() {
		if _, has := t.history[item]; !has {
			t.history[item] = t.nextItemID
			t.nextItemID++
		}
	}
	cnew := treeset.NewWith(func(a, b interface{}) int {
		return a.(*node[T]).itemset.CompareRanked(b.(*node[T]).itemset, t.history)
	})
	t.add(x, true, nil, cnew, true)
}

func (t *Tree[T]) add(x *itemset.Itemset[T], xclose bool, x0 *node[T], cnew *treeset.Set, recurse bool) {
	nodeX := t.find(t.root, x)
	if nodeX != nil {
		if cnew.Empty() {
			// toplevel call, the transaction occurred verbatim
			nodeX.count++
		}
		nodeX.support++
		if xclose {
			if recurse {
				for _, y := range t.candidatesInDescendingLength(x) {
					if y.Equals(x) {
						continue
					}
					if nodeY := t.find(t.root, y); nodeY != nil {
						nodeY.support++
					}
				}
			}
			return
		}
	} else {
		sup := t.supportIfNotContained(x)
		if sup > 0 {
			if cnew.Empty() {
				x0 = &node[T]{itemset: x, support: sup + 1, count: 1}
				cnew.Add(x0)
				xclose = false
			} else if t.closureCheckForAdd(x, x0) {
				cnew.Add(&node[T]{itemset: x, support: sup + 1})
			}
		} else if cnew.Empty() {
			x0 = &node[T]{itemset: x, support: 1, count: 1}
			cnew.Add(x0)
		}

		if recurse && x.Size() > 1 {
			// only intersections with existing nodes can become new closed
			// itemsets, checked by decreasing length
			for _, y := range t.candidatesInDescendingLength(x) {
				if y.Equals(x) {
					continue
				}
				t.add(y, xclose, x0, cnew, false)
			}
		}
	}

	if x0 != nil && x0.itemset.Equals(x) {
		t.insertNodes(cnew)
	}
}

// closureCheckForAdd decides whether the candidate x stays closed after the
// transaction represented by x0 arrived: the minimum superset of x in the
// tree must not share an item outside of x with x0.
func (t *Tree[T]) closureCheckForAdd(x *itemset.Itemset[T], x0 *node[T]) bool {
	xc := t.findMinimumSuperset(t.root, x)
	if xc == nil {
		return false
	}
	for _, item := range xc.itemset.Items() {
		if !x.Has(item) && x0.itemset.Has(item) {
			return false
		}
	}
	return true
}

// canPrune reports whether y and everything after it among its siblings can
// be skipped while enumerating the candidates for x. Works because
// siblings are sorted by the history order.
func (t *Tree[T]) canPrune(x *itemset.Itemset[T], y *node[T]) bool {
	var checkSet *itemset.Itemset[T]
	if y.parent.itemset != nil {
		checkSet = y.parent.itemset.Intersect(x)
	}

	maxX := -1
	for _, item := range x.Items() {
		pos := t.history[item]
		if pos > maxX && (checkSet == nil || !checkSet.Has(item)) {
			maxX = pos
		}
	}

	minY := math.MaxInt
	for _, item := range y.itemset.Items() {
		pos := t.history[item]
		if pos < minY && (checkSet == nil || !checkSet.Has(item)) {
			minY = pos
		}
	}

	return maxX < minY
}

func (t *Tree[T]) allNodesPruned(n *node[T], x *itemset.Itemset[T]) []*node[T] {
	var nodes []*node[T]
	for _, child := range n.children {
		if t.canPrune(x, child) {
			// later siblings are history larger and prune as well
			break
		}
		nodes = append(nodes, child)
		nodes = append(nodes, t.allNodesPruned(child, x)...)
	}
	return nodes
}

func (t *Tree[T]) candidatesInDescendingLength(x *itemset.Itemset[T]) []*itemset.Itemset[T] {
	seen := make(map[string]bool)
	var intersections []*itemset.Itemset[T]
	for _, n := range t.allNodesPruned(t.root, x) {
		in := n.itemset.Intersect(x)
		if in.Size() > 0 && !seen[in.String()] {
			seen[in.String()] = true
			intersections = append(intersections, in)
		}
	}
	slices.SortStableFunc(intersections, func(a, b *itemset.Itemset[T]) int {
		return cmp.Compare(b.Size(), a.Size())
	})
	return intersections
}

// closureCheckForDelete decides whether nodeY stays closed after a
// transaction left the window: the intersection of all its remaining strict
// supersets must be the itemset itself, unless it still occurs as a
// transaction.
func (t *Tree[T]) closureCheckForDelete(nodeY *node[T], obsolete map[*node[T]]bool) bool {
	var m *itemset.Itemset[T]
	for _, n := range t.findAllSupersets(t.root, nodeY.itemset, false) {
		if n == nodeY || obsolete[n] {
			continue
		}
		if m == nil {
			m = n.itemset.Copy()
		} else {
			m.RetainAll(n.itemset)
		}
	}
	return (m != nil && nodeY.itemset.Equals(m)) || nodeY.count > 0
}

func (t *Tree[T]) removeNode(n *node[T]) {
	parent := n.parent
	parent.children = slices.DeleteFunc(parent.children, func(c *node[T]) bool {
		return c == n
	})
	for _, child := range n.children {
		t.restructure(parent, child)
	}
	n.parent = nil
}

// restructure re-inserts child below newParent (or one of its descendants)
// keeping the history order among siblings.
func (t *Tree[T]) restructure(newParent *node[T], child *node[T]) {
	for found := true; found; {
		found = false
		for _, c := range newParent.children {
			if c.itemset.CompareRanked(child.itemset, t.history) <= 0 && child.itemset.Superset(c.itemset) {
				newParent = c
				found = true
				break
			}
		}
	}

	child.parent = newParent
	idx := 0
	for idx < len(newParent.children) {
		if newParent.children[idx].itemset.CompareRanked(child.itemset, t.history) > 0 {
			break
		}
		idx++
	}
	newParent.children = slices.Insert(newParent.children, idx, child)
}

// Delete removes one occurrence of the transaction x from the window.
func (t *Tree[T]) Delete(x *itemset.Itemset[T]) error {
	nodeX := t.find(t.root, x)
	if nodeX == nil || nodeX.count < 1 {
		return errors.Errorf("delete of %v which is not a transaction in the current window", x)
	}
	if nodeX.count >= 2 {
		// the itemset still occurs as a transaction, only the supports of
		// its subsets change
		nodeX.count--
		for _, n := range t.findAllSubsets(t.root, x) {
			n.support--
		}
		return nil
	}

	subsets := t.findAllSubsets(t.root, x)
	slices.SortStableFunc(subsets, func(a, b *node[T]) int {
		return cmp.Compare(b.itemset.Size(), a.itemset.Size())
	})

	obsolete := make(map[*node[T]]bool)
	nodeX.count--
	for _, n := range subsets {
		if n.count >= 2 {
			n.support--
		} else if t.closureCheckForDelete(n, obsolete) {
			n.support--
		} else {
			obsolete[n] = true
		}
	}
	for _, n := range subsets {
		if obsolete[n] {
			t.removeNode(n)
		}
	}
	return nil
}

func (t *Tree[T]) ClosedItemsets() []*itemset.Itemset[T] {
	return t.ClosedFrequentItemsets(0)
}

func (t *Tree[T]) ClosedFrequentItemsets(min int) []*itemset.Itemset[T] {
	return t.closedFrequent(t.root, min)
}

func (t *Tree[T]) closedFrequent(n *node[T], min int) []*itemset.Itemset[T] {
	var frequent []*itemset.Itemset[T]
	if n != t.root && n.support >= min {
		frequent = append(frequent, n.itemset)
	}
	for _, child := range n.children {
		frequent = append(frequent, t.closedFrequent(child, min)...)
	}
	return frequent
}
