package streamfci

import "strings"
import "testing"

import "github.com/stretchr/testify/assert"

import (
	"github.com/timtadh/cfistream/itemset"
)

func addAll(s *StreamFCI[rune], tdb ...*itemset.Itemset[rune]) {
	for _, tx := range tdb {
		s.Add(tx)
	}
}

// label formats a rune itemset with its items as characters, e.g. {a, b}.
func label(x *itemset.Itemset[rune]) string {
	parts := make([]string, 0, x.Size())
	for _, item := range x.Items() {
		parts = append(parts, string(item))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func closedSupports(s *StreamFCI[rune]) map[string]int {
	supports := make(map[string]int)
	for _, x := range s.ClosedItemsets() {
		supports[label(x)] = s.Support(x)
	}
	return supports
}

func TestAddExample(x *testing.T) {
	t := assert.New(x)
	s := New[rune]()
	addAll(s,
		itemset.New('C', 'D'),
		itemset.New('A', 'B', 'C'),
		itemset.New('A', 'B'),
	)
	t.Equal(map[string]int{
		"{A, B}":    2,
		"{A, B, C}": 1,
		"{C, D}":    1,
		"{C}":       2,
	}, closedSupports(s))
}

func TestDuplicateTransactions(x *testing.T) {
	t := assert.New(x)
	s := New[rune]()
	addAll(s,
		itemset.New('a', 'b'),
		itemset.New('a', 'b'),
	)
	t.Equal(map[string]int{
		"{a, b}": 2,
	}, closedSupports(s))
}

func TestDelete(x *testing.T) {
	t := assert.New(x)
	s := New[rune]()
	addAll(s,
		itemset.New('a', 'b'),
		itemset.New('c', 'd'),
	)
	t.Nil(s.Delete(itemset.New('a', 'b')))
	t.Equal(map[string]int{
		"{c, d}": 1,
	}, closedSupports(s))
	t.NotNil(s.Delete(itemset.New('a', 'b')))
}

func TestSupportAcrossBranches(x *testing.T) {
	t := assert.New(x)
	s := New[rune]()
	addAll(s,
		itemset.New('a', 'b'),
		itemset.New('b', 'c'),
	)
	// b occurs on two branches until the tree rebalances, the support walk
	// must see every node of the deepest query item
	t.Equal(2, s.Support(itemset.New('b')))
	t.Equal(1, s.Support(itemset.New('a', 'b')))
	t.Equal(1, s.Support(itemset.New('b', 'c')))
	t.Equal(0, s.Support(itemset.New('a', 'c')))
	t.Equal(0, s.Support(itemset.New('z')))
	t.Equal(map[string]int{
		"{b}":    2,
		"{a, b}": 1,
		"{b, c}": 1,
	}, closedSupports(s))
}

func TestClosedFrequent(x *testing.T) {
	t := assert.New(x)
	s := New[rune]()
	addAll(s,
		itemset.New('C', 'D'),
		itemset.New('A', 'B', 'C'),
		itemset.New('A', 'B'),
	)
	frequent := s.ClosedFrequentItemsets(2)
	t.Equal(2, len(frequent))
	for _, f := range frequent {
		t.True(s.Support(f) >= 2, "%v has support %d < 2", f, s.Support(f))
	}
}
