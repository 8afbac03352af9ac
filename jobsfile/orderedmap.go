package jobsfile

// Value is the type of any node in a parsed jobs file: a string scalar (the
// failsafe schema coerces every scalar to a string), a list of Values, or
// an OrderedMap for a nested mapping.
type Value interface{}

// OrderedMap is a string-keyed map that remembers insertion order, since
// the conditional-key flattening rules in §4.D depend on processing keys
// in the order they appear in the document.
type OrderedMap struct {
	keys   []string
	values map[string]Value
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: map[string]Value{}}
}

// Set inserts or updates the value for key, appending it to the key order
// only the first time it is set.
func (m *OrderedMap) Set(key string, value Value) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key, if present.
func (m *OrderedMap) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion (document) order. The returned slice
// is a copy safe to iterate while mutating m.
func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len reports the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Clone returns a deep copy of m.
func (m *OrderedMap) Clone() *OrderedMap {
	clone := NewOrderedMap()
	for _, k := range m.keys {
		clone.Set(k, CloneValue(m.values[k]))
	}
	return clone
}

// CloneValue deep-copies an arbitrary Value.
func CloneValue(v Value) Value {
	switch t := v.(type) {
	case *OrderedMap:
		return t.Clone()
	case []Value:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}
