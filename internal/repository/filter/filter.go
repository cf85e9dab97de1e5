package filter

import "cloud.google.com/go/firestore"

type Where struct {
	Path  string
	Op    string
	Value interface{}
}

type Order struct {
	Path string
	Desc bool
}

// Apply narrows and orders query in the given sequence.
func Apply(query firestore.Query, where []Where, order []Order) firestore.Query {
	for _, w := range where {
		query = query.Where(w.Path, w.Op, w.Value)
	}
	for _, o := range order {
		dir := firestore.Asc
		if o.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(o.Path, dir)
	}
	return query
}
