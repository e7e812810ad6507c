package itemset

import "strings"
import "testing"

import "github.com/stretchr/testify/assert"

func TestAlgebra(x *testing.T) {
	t := assert.New(x)
	a := New(3, 1, 2, 2)
	t.Equal(3, a.Size())
	t.Equal([]int{1, 2, 3}, a.Items())
	t.True(a.Has(2))
	t.False(a.Has(4))

	b := New(2, 3, 4)
	in := a.Intersect(b)
	un := a.Union(b)
	t.Equal([]int{2, 3}, in.Items())
	t.Equal([]int{1, 2, 3, 4}, un.Items())
	// functional ops leave the inputs alone
	t.Equal([]int{1, 2, 3}, a.Items())
	t.Equal([]int{2, 3, 4}, b.Items())

	t.True(un.Superset(a))
	t.True(un.Superset(b))
	t.True(a.Superset(in))
	t.False(in.Superset(a))
	t.True(a.Superset(New[int]()))

	c := a.Copy()
	c.RetainAll(b)
	t.True(c.Equals(in))
	c.Update(b)
	t.Equal([]int{2, 3, 4}, c.Items())
	c.Add(0)
	t.Equal([]int{0, 2, 3, 4}, c.Items())
}

func TestCompare(x *testing.T) {
	t := assert.New(x)
	t.True(New(1, 2).Compare(New(1, 3)) < 0)
	t.True(New(1, 3).Compare(New(1, 2)) > 0)
	t.True(New(1).Compare(New(1, 2)) < 0)
	t.True(New[int]().Compare(New(1)) < 0)
	t.True(New(1, 2).Compare(New(1, 2)) == 0)
}

func TestCompareRanked(x *testing.T) {
	t := assert.New(x)
	// ranks follow first appearance in the stream C D A B
	ranks := map[rune]int{'C': 0, 'D': 1, 'A': 2, 'B': 3}
	t.True(New('C', 'D').CompareRanked(New('A', 'B'), ranks) < 0)
	t.True(New('C').CompareRanked(New('C', 'D'), ranks) < 0)
	// {A, B, C} ranks to [0 2 3] which precedes {A, B} at [2 3]
	t.True(New('A', 'B', 'C').CompareRanked(New('A', 'B'), ranks) < 0)
	t.True(New('A', 'B').CompareRanked(New('B', 'A'), ranks) == 0)
}

func TestSubsetsDescending(x *testing.T) {
	t := assert.New(x)
	subsets := New(1, 2, 3).SubsetsDescending()
	t.Equal(7, len(subsets))
	t.True(subsets[0].Equals(New(1, 2, 3)))
	for i := 1; i < len(subsets); i++ {
		t.True(subsets[i-1].Size() >= subsets[i].Size(),
			"subsets out of order: %v before %v", subsets[i-1], subsets[i])
	}
	seen := make(map[string]bool)
	for _, s := range subsets {
		t.False(seen[s.String()], "duplicate subset %v", s)
		seen[s.String()] = true
	}
}

func TestLoadInts(x *testing.T) {
	t := assert.New(x)
	tdb, err := LoadInts(strings.NewReader("10 1 5 7\n213 2 5 1\n\n3 4 1\n"))
	t.Nil(err)
	t.Equal(3, len(tdb))
	t.True(tdb[0].Equals(New[int32](1, 5, 7, 10)))
	t.True(tdb[1].Equals(New[int32](1, 2, 5, 213)))
	t.True(tdb[2].Equals(New[int32](1, 3, 4)))
}

func TestLoadCSV(x *testing.T) {
	t := assert.New(x)
	tdb, err := LoadCSV(strings.NewReader("25,52,164\n39,120\n"))
	t.Nil(err)
	t.Equal(2, len(tdb))
	t.True(tdb[0].Equals(New[int32](25, 52, 164)))
	t.True(tdb[1].Equals(New[int32](39, 120)))
}
