package streamfci

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

// DFPTree is the dynamic frequent pattern tree of the StreamFCI algorithm
// by Tang et al. Every path is kept sorted by descending item support with
// ties broken by the natural item order; adjust restores that order after
// every update.
type DFPTree[T cmp.Ordered] struct {
	root        *dfpNode[T]
	headerTable map[T]*headerEntry[T]
}

type dfpNode[T cmp.Ordered] struct {
	item     T
	count    int
	nodeLink *dfpNode[T]
	children map[T]*dfpNode[T]
	parent   *dfpNode[T]
}

// A headerEntry indexes all nodes carrying one item through the nodeLink
// chain and caches the item's support over the whole tree.
type headerEntry[T cmp.Ordered] struct {
	item     T
	support  int
	nodeLink *dfpNode[T]
}

func NewDFPTree[T cmp.Ordered]() *DFPTree[T] {
	return &DFPTree[T]{
		root:        &dfpNode[T]{children: make(map[T]*dfpNode[T])},
		headerTable: make(map[T]*headerEntry[T]),
	}
}

// orderedItems sorts the items of x by descending header support, ties by
// the natural order. Items not yet in the header table count as support 0.
func (t *DFPTree[T]) orderedItems(x *itemset.Itemset[T]) []T {
	items := slices.Clone(x.Items())
	slices.SortStableFunc(items, func(a, b T) int {
		sa, sb := 0, 0
		if he := t.headerTable[a]; he != nil {
			sa = he.support
		}
		if he := t.headerTable[b]; he != nil {
			sb = he.support
		}
		if sa != sb {
			return cmp.Compare(sb, sa)
		}
		return cmp.Compare(a, b)
	})
	return items
}

// Add enters a new transaction into the tree.
func (t *DFPTree[T]) Add(x *itemset.Itemset[T]) {
	t.addPath(t.root, t.orderedItems(x))
	t.adjust(false)
}

func (t *DFPTree[T]) addPath(n *dfpNode[T], items []T) {
	item := items[0]
	child := n.children[item]
	if child != nil {
		child.count++
		t.headerTable[item].support++
	} else {
		child = &dfpNode[T]{
			item:     item,
			count:    1,
			children: make(map[T]*dfpNode[T]),
			parent:   n,
		}
		n.children[item] = child

		he := t.headerTable[item]
		if he == nil {
			t.headerTable[item] = &headerEntry[T]{
				item:     item,
				support:  child.count,
				nodeLink: child,
			}
		} else if he.nodeLink == nil {
			he.nodeLink = child
			he.support = child.count
		} else {
			link := he.nodeLink
			for link.nodeLink != nil {
				link = link.nodeLink
			}
			link.nodeLink = child
			he.support += child.count
		}
	}

	if len(items) > 1 {
		t.addPath(child, items[1:])
	}
}

// Delete removes one occurrence of the transaction x from the tree.
func (t *DFPTree[T]) Delete(x *itemset.Itemset[T]) error {
	if err := t.deletePath(t.root, t.orderedItems(x)); err != nil {
		return err
	}
	t.adjust(true)
	return nil
}

func (t *DFPTree[T]) deletePath(n *dfpNode[T], items []T) error {
	item := items[0]
	child := n.children[item]
	if child == nil {
		return errors.Errorf("delete of a transaction which is not in the current window: no node for item %v", item)
	}
	child.count--
	he := t.headerTable[item]
	he.support--
	if he.support == 0 {
		delete(t.headerTable, item)
	}

	if child.count == 0 {
		// splice the node out of its item's node link chain
		if he.nodeLink == child {
			he.nodeLink = child.nodeLink
		} else {
			link := he.nodeLink
			for link.nodeLink != child {
				link = link.nodeLink
			}
			link.nodeLink = child.nodeLink
		}

		delete(n.children, item)
		for _, grandchild := range child.children {
			grandchild.parent = n
			t.merge(n, grandchild)
		}

		// continue the descent from the former parent
		child = n
	}

	if len(items) > 1 {
		return t.deletePath(child, items[1:])
	}
	return nil
}

// adjust swaps inverse pairs until every path is sorted by descending
// header support again.
func (t *DFPTree[T]) adjust(deleteFlag bool) {
	for y := t.findInversePair(deleteFlag); y != nil; y = t.findInversePair(deleteFlag) {
		x := y.parent
		w := x.parent

		delete(x.children, y.item)
		x.count -= y.count

		v := &dfpNode[T]{item: x.item, count: y.count}
		v.nodeLink = x.nodeLink
		x.nodeLink = v

		v.parent = y
		v.children = y.children
		for _, child := range v.children {
			child.parent = v
		}
		y.children = map[T]*dfpNode[T]{v.item: v}
		y.parent = nil

		if x.count == 0 {
			delete(w.children, x.item)
			he := t.headerTable[x.item]
			if he.nodeLink == x {
				he.nodeLink = v
			} else {
				link := he.nodeLink
				for link.nodeLink != x {
					link = link.nodeLink
				}
				link.nodeLink = v
			}
		}

		t.merge(w, y)
	}
}

// findInversePair looks for a node whose parent is out of order: smaller
// header support, or equal support with a larger item.
func (t *DFPTree[T]) findInversePair(deleteFlag bool) *dfpNode[T] {
	for _, he := range t.headerTable {
		// support == 1 only matters after a deletion
		if he.support <= 1 && !(deleteFlag && he.support == 1) {
			continue
		}
		for link := he.nodeLink; link != nil; link = link.nodeLink {
			if link.parent == nil || link.parent == t.root {
				continue
			}
			parentHe := t.headerTable[link.parent.item]
			if parentHe == nil {
				continue
			}
			if parentHe.support < he.support {
				return link
			}
			if parentHe.support == he.support && link.parent.item > link.item {
				return link
			}
		}
	}
	return nil
}

// merge folds the subtree rooted at n into target, accumulating counts on
// matching children.
func (t *DFPTree[T]) merge(target, n *dfpNode[T]) {
	if existing, has := target.children[n.item]; has {
		existing.count += n.count

		he := t.headerTable[n.item]
		if he.nodeLink == n {
			he.nodeLink = n.nodeLink
		} else {
			link := he.nodeLink
			for link.nodeLink != n {
				link = link.nodeLink
			}
			link.nodeLink = n.nodeLink
		}

		for _, child := range n.children {
			t.merge(existing, child)
		}
	} else {
		target.children[n.item] = n
		n.parent = target
	}
}

// countSum adds up the counts of item over all descendants of n.
func (t *DFPTree[T]) countSum(n *dfpNode[T], item T) int {
	sum := 0
	for i, child := range n.children {
		if i == item {
			sum += child.count
		} else {
			sum += t.countSum(child, item)
		}
	}
	return sum
}

func (t *DFPTree[T]) descendants(n *dfpNode[T], acc map[T]bool) {
	for item, child := range n.children {
		acc[item] = true
		t.descendants(child, acc)
	}
}

// ClosedItemsets derives the closed itemsets of the current window from the
// tree: a path is a candidate unless a descendant item covers its whole
// count, and the candidate set is closed under pairwise intersection.
func (t *DFPTree[T]) ClosedItemsets() []*itemset.Itemset[T] {
	sets := t.closedItemsets(t.root, itemset.New[T]())
	out := make([]*itemset.Itemset[T], 0, len(sets))
	for _, x := range sets {
		out = append(out, x)
	}
	return out
}

func (t *DFPTree[T]) closedItemsets(n *dfpNode[T], onPath *itemset.Itemset[T]) map[string]*itemset.Itemset[T] {
	sets := make(map[string]*itemset.Itemset[T])

	closed := true
	desc := make(map[T]bool)
	t.descendants(n, desc)
	for item := range desc {
		if n.count == t.countSum(n, item) {
			// a strict superset of this path has equal support
			closed = false
		}
	}

	for item, child := range n.children {
		childPath := onPath.Copy()
		childPath.Add(item)
		for k, x := range t.closedItemsets(child, childPath) {
			sets[k] = x
		}
	}

	if n != t.root && closed {
		x := onPath.Copy()
		sets[x.String()] = x
	}

	// close the collected sets under pairwise intersection
	for {
		cnew := make(map[string]*itemset.Itemset[T])
		for _, a := range sets {
			for _, b := range sets {
				in := a.Intersect(b)
				if in.Size() == 0 {
					continue
				}
				if _, has := sets[in.String()]; !has {
					cnew[in.String()] = in
				}
			}
		}
		if len(cnew) == 0 {
			break
		}
		for k, x := range cnew {
			sets[k] = x
		}
	}

	return sets
}

// Support counts the window transactions containing x by walking the node
// link chain of the member item lying deepest in the tree order (minimal
// header support, ties by the natural order) and summing the counts of
// nodes whose root path covers x. This equals the support of the smallest
// closed itemset containing x.
func (t *DFPTree[T]) Support(x *itemset.Itemset[T]) int {
	if x.Size() == 0 {
		return 0
	}
	for _, item := range x.Items() {
		if t.headerTable[item] == nil {
			return 0
		}
	}
	ordered := t.orderedItems(x)
	deepest := t.headerTable[ordered[len(ordered)-1]]
	sup := 0
	for link := deepest.nodeLink; link != nil; link = link.nodeLink {
		onPath := itemset.New[T]()
		for n := link; n != nil && n != t.root; n = n.parent {
			onPath.Add(n.item)
		}
		if onPath.Superset(x) {
			sup += link.count
		}
	}
	return sup
}
