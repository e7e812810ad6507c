package itemset

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

import (
	"github.com/timtadh/data-structures/errors"
	"github.com/timtadh/data-structures/set"
	"github.com/timtadh/data-structures/types"
)

// LoadInts reads newline delimited transactions of space separated integer
// items.
//
//	10 1 5 7
//	213 2 5 1
//	23 1 4 5 7
func LoadInts(input io.Reader) ([]*Itemset[int32], error) {
	return loadTransactions(input, " ")
}

// LoadCSV reads newline delimited transactions of comma separated integer
// items, the format of the T10I4D100K/retail/kosarak datasets.
func LoadCSV(input io.Reader) ([]*Itemset[int32], error) {
	return loadTransactions(input, ",")
}

func loadTransactions(input io.Reader, sep string) ([]*Itemset[int32], error) {
	tdb := make([]*Itemset[int32], 0, 10)
	scanner := bufio.NewScanner(input)
	tx := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		items := set.NewSortedSet(10)
		for _, col := range strings.Split(line, sep) {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			item, err := strconv.Atoi(col)
			if err != nil {
				errors.Logf("WARN", "input line %d contained non int '%s'", tx, col)
				continue
			}
			items.Add(types.Int32(int32(item)))
		}
		if items.Size() > 0 {
			tdb = append(tdb, fromSortedSet(items))
		}
		tx++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return tdb, nil
}

func fromSortedSet(s *set.SortedSet) *Itemset[int32] {
	items := make([]int32, 0, s.Size())
	for i, next := s.Items()(); next != nil; i, next = next() {
		items = append(items, int32(i.(types.Int32)))
	}
	return FromSlice(items)
}
