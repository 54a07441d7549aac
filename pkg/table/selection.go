package table

import "github.com/Sternrassler/artic-table/pkg/artwork"

// Selection is an insertion-ordered set of records keyed by ID. The zero
// value is empty. Methods never modify the receiver, so a Selection held in
// a snapshot stays stable.
type Selection struct {
	order []int64
	items map[int64]artwork.Artwork
}

// NewSelection builds a selection from records, dropping duplicate IDs.
func NewSelection(records ...artwork.Artwork) Selection {
	s := Selection{
		order: make([]int64, 0, len(records)),
		items: make(map[int64]artwork.Artwork, len(records)),
	}
	for _, r := range records {
		if _, ok := s.items[r.ID]; ok {
			continue
		}
		s.order = append(s.order, r.ID)
		s.items[r.ID] = r
	}
	return s
}

// Len returns the number of selected records.
func (s Selection) Len() int {
	return len(s.order)
}

// Has reports whether id is selected.
func (s Selection) Has(id int64) bool {
	_, ok := s.items[id]
	return ok
}

// IDs returns the selected identifiers in selection order.
func (s Selection) IDs() []int64 {
	out := make([]int64, len(s.order))
	copy(out, s.order)
	return out
}

// Records returns the selected records in selection order.
func (s Selection) Records() []artwork.Artwork {
	out := make([]artwork.Artwork, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

// Toggle returns a selection with r added, or removed if already present.
func (s Selection) Toggle(r artwork.Artwork) Selection {
	if s.Has(r.ID) {
		return s.Without(r.ID)
	}
	return s.With(r)
}

// With returns a selection that also contains records.
func (s Selection) With(records ...artwork.Artwork) Selection {
	return NewSelection(append(s.Records(), records...)...)
}

// Without returns a selection without the given ids.
func (s Selection) Without(ids ...int64) Selection {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := make([]artwork.Artwork, 0, len(s.order))
	for _, id := range s.order {
		if _, ok := drop[id]; !ok {
			kept = append(kept, s.items[id])
		}
	}
	return NewSelection(kept...)
}

// Truncate returns a selection holding at most n records, keeping the
// earliest selected.
func (s Selection) Truncate(n int) Selection {
	if n < 0 || n >= len(s.order) {
		return s
	}
	return NewSelection(s.Records()[:n]...)
}

// ContainsAll reports whether every record in rows is selected. It is false
// for no rows.
func (s Selection) ContainsAll(rows []artwork.Artwork) bool {
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		if !s.Has(r.ID) {
			return false
		}
	}
	return true
}
