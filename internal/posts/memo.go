package posts

import "context"

// Memo caches the derived detail for the last (selected ID, collection)
// inputs. The collection is append-only, so its length identifies it.
type Memo struct {
	valid        bool
	id           int
	size         int
	value        *Detail
	computations int
}

// Get returns the derived detail for id within collection, recomputing only
// when id or the collection has changed since the previous call. It returns
// nil when id is zero or not present in collection.
func (m *Memo) Get(ctx context.Context, id int, collection []Summary) *Detail {
	if m.valid && m.id == id && m.size == len(collection) {
		return m.value
	}

	m.computations++
	m.valid = true
	m.id = id
	m.size = len(collection)
	m.value = nil

	if id == 0 {
		return nil
	}
	p, ok := Find(collection, id)
	if !ok {
		return nil
	}
	d := Derive(ctx, p)
	m.value = &d
	return m.value
}

// Computations reports how many times the derived value was recomputed.
func (m *Memo) Computations() int {
	return m.computations
}

// Reset drops the cached inputs so the next Get recomputes.
func (m *Memo) Reset() {
	m.valid = false
	m.value = nil
}
