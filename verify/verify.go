package verify

import (
	"cmp"
)

import (
	"github.com/timtadh/data-structures/errors"
	"github.com/timtadh/data-structures/hashtable"
	"github.com/timtadh/data-structures/types"
)

import (
	"github.com/timtadh/cfistream/itemset"
	"github.com/timtadh/cfistream/window"
)

// Algorithm runs a primary and a shadow engine in lockstep over the same
// transaction stream. Every query is answered by the primary after checking
// that the shadow agrees. The engines share no state; a divergence means
// one of them corrupted a structural invariant and is reported by
// panicking, there is nothing to recover at this layer.
type Algorithm[T cmp.Ordered] struct {
	primary window.Algorithm[T]
	shadow  window.Algorithm[T]
}

func New[T cmp.Ordered](primary, shadow window.Algorithm[T]) *Algorithm[T] {
	return &Algorithm[T]{primary: primary, shadow: shadow}
}

func (a *Algorithm[T]) Add(x *itemset.Itemset[T]) {
	a.primary.Add(x)
	a.shadow.Add(x)
}

func (a *Algorithm[T]) Delete(x *itemset.Itemset[T]) error {
	if err := a.primary.Delete(x); err != nil {
		return err
	}
	return a.shadow.Delete(x)
}

func (a *Algorithm[T]) Support(x *itemset.Itemset[T]) int {
	sup := a.primary.Support(x)
	if shadow := a.shadow.Support(x); shadow != sup {
		panic(errors.Errorf("engines disagree on the support of %v: %d != %d", x, sup, shadow))
	}
	return sup
}

func (a *Algorithm[T]) ClosedItemsets() []*itemset.Itemset[T] {
	return a.check(a.primary.ClosedItemsets(), a.shadow.ClosedItemsets())
}

func (a *Algorithm[T]) ClosedFrequentItemsets(t int) []*itemset.Itemset[T] {
	return a.check(a.primary.ClosedFrequentItemsets(t), a.shadow.ClosedFrequentItemsets(t))
}

func (a *Algorithm[T]) check(primary, shadow []*itemset.Itemset[T]) []*itemset.Itemset[T] {
	seen := hashtable.NewLinearHash()
	for _, x := range primary {
		err := seen.Put(types.String(x.String()), types.Int(a.primary.Support(x)))
		if err != nil {
			panic(err)
		}
	}
	if seen.Size() != len(shadow) {
		panic(errors.Errorf(
			"engines disagree on the closed itemsets: %d != %d patterns",
			seen.Size(), len(shadow)))
	}
	for _, x := range shadow {
		v, err := seen.Get(types.String(x.String()))
		if err != nil {
			panic(errors.Errorf("engines disagree on the closed itemsets: only the shadow reported %v", x))
		}
		if sup := a.shadow.Support(x); int(v.(types.Int)) != sup {
			panic(errors.Errorf(
				"engines disagree on the support of %v: %d != %d",
				x, int(v.(types.Int)), sup))
		}
	}
	return primary
}
