package reconciliation

import (
	"reconciliation-service/internal/domain"
)

// Keyed is implemented by every row type that belongs to a document key.
type Keyed interface {
	Key() domain.DocumentKey
}

// InvoiceGroup holds the rows of one logical invoice, in input order.
// A group is never empty.
type InvoiceGroup[T Keyed] struct {
	Key  domain.DocumentKey
	Rows []T
}

// First returns the first row of the group.
func (g InvoiceGroup[T]) First() T {
	return g.Rows[0]
}

// GroupByKey buckets rows by document key in a single pass. Groups come back
// in the order their key was first seen; no row is ever dropped.
func GroupByKey[T Keyed](rows []T) []InvoiceGroup[T] {
	index := make(map[domain.DocumentKey]int)
	var groups []InvoiceGroup[T]

	for _, row := range rows {
		key := row.Key()
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, InvoiceGroup[T]{Key: key})
		}
		groups[pos].Rows = append(groups[pos].Rows, row)
	}
	return groups
}

// indexByKey groups rows and returns them addressable by key.
func indexByKey[T Keyed](rows []T) map[domain.DocumentKey]InvoiceGroup[T] {
	groups := GroupByKey(rows)
	index := make(map[domain.DocumentKey]InvoiceGroup[T], len(groups))
	for _, g := range groups {
		index[g.Key] = g
	}
	return index
}
