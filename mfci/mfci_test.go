package mfci

import "strings"
import "testing"

import "github.com/stretchr/testify/assert"

import (
	"github.com/timtadh/cfistream/itemset"
)

func mfciExample() []*itemset.Itemset[rune] {
	return []*itemset.Itemset[rune]{
		itemset.New('A', 'C', 'T', 'W'),
		itemset.New('C', 'D', 'W'),
		itemset.New('A', 'C', 'T', 'W'),
		itemset.New('A', 'C', 'D', 'W'),
		itemset.New('A', 'C', 'D', 'T', 'W'),
		itemset.New('C', 'D', 'T'),
	}
}

func addAll(m *MFCI[rune], tdb ...*itemset.Itemset[rune]) {
	for _, tx := range tdb {
		m.Add(tx)
	}
}

// label formats a rune itemset with its items as characters, e.g. {A, B}.
func label(x *itemset.Itemset[rune]) string {
	parts := make([]string, 0, x.Size())
	for _, item := range x.Items() {
		parts = append(parts, string(item))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func closedSupports(m *MFCI[rune]) map[string]int {
	supports := make(map[string]int)
	for _, x := range m.ClosedItemsets() {
		supports[label(x)] = m.Support(x)
	}
	return supports
}

func TestPaperExample(x *testing.T) {
	t := assert.New(x)
	m := New[rune]()
	addAll(m, mfciExample()...)
	t.Equal(map[string]int{
		"{C}":             6,
		"{C, W}":          5,
		"{C, D}":          4,
		"{C, T}":          4,
		"{A, C, W}":       4,
		"{C, D, W}":       3,
		"{A, C, T, W}":    3,
		"{C, D, T}":       2,
		"{A, C, D, W}":    2,
		"{A, C, D, T, W}": 1,
	}, closedSupports(m))
}

func TestSupports(x *testing.T) {
	t := assert.New(x)
	m := New[rune]()
	addAll(m, mfciExample()...)
	t.Equal(6, m.Support(itemset.New('C')))
	t.Equal(5, m.Support(itemset.New('W')))
	t.Equal(4, m.Support(itemset.New('A')))
	t.Equal(4, m.Support(itemset.New('T')))
	t.Equal(3, m.Support(itemset.New('A', 'T')))
	t.Equal(3, m.Support(itemset.New('A', 'C', 'T', 'W')))
	t.Equal(2, m.Support(itemset.New('A', 'C', 'D', 'W')))
	t.Equal(1, m.Support(itemset.New('A', 'C', 'D', 'T', 'W')))
	t.Equal(0, m.Support(itemset.New('Z')))
}

func TestClosedFrequent(x *testing.T) {
	t := assert.New(x)
	m := New[rune]()
	addAll(m, mfciExample()...)
	frequent := m.ClosedFrequentItemsets(4)
	t.Equal(5, len(frequent))
	for _, f := range frequent {
		t.True(m.Support(f) >= 4, "%v has support %d < 4", f, m.Support(f))
	}
}

func TestAgeingOut(x *testing.T) {
	t := assert.New(x)
	m := New[rune]()
	addAll(m,
		itemset.New('C', 'D'),
		itemset.New('A', 'B'),
		itemset.New('A', 'B', 'C'),
		itemset.New('A', 'B', 'C'),
	)
	t.Equal(map[string]int{
		"{C}":       3,
		"{A, B}":    3,
		"{A, B, C}": 2,
		"{C, D}":    1,
	}, closedSupports(m))
	t.Nil(m.Delete(itemset.New('C', 'D')))
	t.Equal(map[string]int{
		"{A, B}":    3,
		"{A, B, C}": 2,
	}, closedSupports(m))
}

func TestDeleteNotInWindow(x *testing.T) {
	t := assert.New(x)
	m := New[rune]()
	addAll(m, itemset.New('A', 'B'))
	t.NotNil(m.Delete(itemset.New('C')))
}

func TestRoundTrip(x *testing.T) {
	t := assert.New(x)
	m := New[rune]()
	tdb := mfciExample()
	addAll(m, tdb...)
	for _, tx := range tdb {
		t.Nil(m.Delete(tx))
	}
	t.Equal(0, len(m.ClosedItemsets()))
	t.Equal(0, m.Support(itemset.New('C')))
}
