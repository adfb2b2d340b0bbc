package fulltext

// Map is a TokenSet with a value per key. The values array is indexed by id
// and grows in lockstep with the keys.
type Map[V any] struct {
	TokenSet
	values []V
}

// IntMap maps tokens to integers, e.g. term frequencies.
type IntMap = Map[int]

// BytesMap maps tokens to byte arrays, e.g. num-encoded postings.
type BytesMap = Map[[]byte]

// NewMap creates an empty map.
func NewMap[V any]() *Map[V] {
	m := &Map[V]{}
	m.init(initialCapacity)
	m.values = make([]V, initialCapacity)
	return m
}

func (m *Map[V]) sync() {
	if len(m.values) < len(m.keys) {
		values := make([]V, len(m.keys))
		copy(values, m.values)
		m.values = values
	}
}

// Add inserts key with the zero value if it is not yet present.
func (m *Map[V]) Add(key []byte) AddResult {
	r := m.TokenSet.Add(key)
	m.sync()
	return r
}

// Put stores v under key and returns the id of the key.
func (m *Map[V]) Put(key []byte, v V) AddResult {
	r := m.Add(key)
	m.values[r.ID] = v
	return r
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key []byte) (V, bool) {
	id := m.ID(key)
	if id == 0 {
		var zero V
		return zero, false
	}
	return m.values[id], true
}

// Value returns the value stored under id.
func (m *Map[V]) Value(id int) V {
	return m.values[id]
}

// SetValue replaces the value stored under a live id.
func (m *Map[V]) SetValue(id int, v V) {
	if m.Key(id) == nil {
		panic("fulltext: SetValue on unknown id")
	}
	m.values[id] = v
}

// Delete removes key and its value and returns the former id, or 0.
func (m *Map[V]) Delete(key []byte) int {
	id := m.TokenSet.Delete(key)
	if id != 0 {
		var zero V
		m.values[id] = zero
	}
	return id
}
