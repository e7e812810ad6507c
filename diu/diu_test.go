package diu

import "strings"
import "testing"

import "github.com/stretchr/testify/assert"

import (
	"github.com/timtadh/cfistream/itemset"
)

func addAll(t *Tree[rune], tdb ...*itemset.Itemset[rune]) {
	for _, tx := range tdb {
		t.Add(tx)
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

func closedSupports(t *Tree[rune]) map[string]int {
	supports := make(map[string]int)
	for _, x := range t.ClosedItemsets() {
		supports[label(x)] = t.Support(x)
	}
	return supports
}

func TestAddExample(x *testing.T) {
	t := assert.New(x)
	tree := NewTree[rune]()
	addAll(tree,
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
	}, closedSupports(tree))
	t.Equal(3, tree.Support(itemset.New('A')))
	t.Equal(2, tree.Support(itemset.New('A', 'C')))
	t.Equal(2, tree.Support(itemset.New('B', 'C')))
	t.Equal(0, tree.Support(itemset.New('Z')))
}

func TestAgeingOut(x *testing.T) {
	t := assert.New(x)
	tree := NewTree[rune]()
	addAll(tree,
		itemset.New('C', 'D'),
		itemset.New('A', 'B'),
		itemset.New('A', 'B', 'C'),
		itemset.New('A', 'B', 'C'),
	)
	t.Nil(tree.Delete(itemset.New('C', 'D')))
	t.Equal(map[string]int{
		"{A, B}":    3,
		"{A, B, C}": 2,
	}, closedSupports(tree))
}

func TestDuplicateTransactions(x *testing.T) {
	t := assert.New(x)
	tree := NewTree[rune]()
	addAll(tree,
		itemset.New('1', '2'),
		itemset.New('1', '2'),
		itemset.New('2', '3'),
		itemset.New('3'),
		itemset.New('1', '2', '3', '4'),
	)
	t.Nil(tree.Delete(itemset.New('1', '2')))
	// one verbatim occurrence is left plus {1, 2, 3, 4}
	t.Equal(2, tree.Support(itemset.New('1', '2')))
	supports := closedSupports(tree)
	_, has := supports["{1, 2}"]
	t.True(has, "{1, 2} should still be closed: %v", supports)
	// the second delete drops the last verbatim occurrence
	t.Nil(tree.Delete(itemset.New('1', '2')))
	t.NotNil(tree.Delete(itemset.New('1', '2')))
}

func TestDeleteNotInWindow(x *testing.T) {
	t := assert.New(x)
	tree := NewTree[rune]()
	addAll(tree, itemset.New('A', 'B'))
	t.NotNil(tree.Delete(itemset.New('C')))
	// {A} is covered by the window but never occurred as a transaction
	t.NotNil(tree.Delete(itemset.New('A')))
}

func TestLexicographicOrder(x *testing.T) {
	t := assert.New(x)
	tree := NewTree[rune]()
	addAll(tree,
		itemset.New('1', '2'),
		itemset.New('2', '3'),
		itemset.New('3'),
		itemset.New('1', '2'),
	)
	t.Equal(map[string]int{
		"{1, 2}": 2,
		"{2}":    3,
		"{2, 3}": 1,
		"{3}":    2,
	}, closedSupports(tree))
	t.Equal(3, tree.Support(itemset.New('2')))
	t.Equal(2, tree.Support(itemset.New('3')))
	t.Equal(2, tree.Support(itemset.New('1', '2')))
}

func TestHistoryCompleteness(x *testing.T) {
	t := assert.New(x)
	tree := NewTree[rune]()
	tdb := []*itemset.Itemset[rune]{
		itemset.New('M', 'O', 'N', 'K', 'E', 'Y'),
		itemset.New('D', 'O', 'N', 'K', 'E', 'Y'),
		itemset.New('M', 'A', 'K', 'E'),
		itemset.New('M', 'U', 'C', 'K', 'Y'),
		itemset.New('C', 'O', 'K', 'E'),
	}
	addAll(tree, tdb...)
	for _, tx := range tdb {
		for _, item := range tx.Items() {
			_, has := tree.history[item]
			t.True(has, "item %c missing from the history", item)
		}
	}
	// items stay ranked even when their support drops to zero
	t.Nil(tree.Delete(tdb[2]))
	_, has := tree.history['A']
	t.True(has)
}

func TestRoundTrip(x *testing.T) {
	t := assert.New(x)
	tree := NewTree[rune]()
	tdb := []*itemset.Itemset[rune]{
		itemset.New('A', 'C', 'T', 'W'),
		itemset.New('C', 'D', 'W'),
		itemset.New('A', 'C', 'T', 'W'),
		itemset.New('A', 'C', 'D', 'W'),
		itemset.New('A', 'C', 'D', 'T', 'W'),
		itemset.New('C', 'D', 'T'),
	}
	addAll(tree, tdb...)
	for _, tx := range tdb {
		t.Nil(tree.Delete(tx))
	}
	t.Equal(0, len(tree.ClosedItemsets()))
	t.Equal(0, tree.Support(itemset.New('C')))
}
