package jxc

// DuplicateKeyPolicy controls what an Object does when a key is set a
// second time, per spec.md §4.5/§9 design notes.
type DuplicateKeyPolicy int

const (
	// LastWins overwrites the existing value in place, keeping the
	// key's original insertion position.
	LastWins DuplicateKeyPolicy = iota
	// KeepAll appends a new entry, preserving both values under an
	// iteration that yields the key twice.
	KeepAll
)

// objectEntry is one slot in an Object's insertion-ordered backing
// store.
type objectEntry struct {
	key   string
	value *Value
}

// Object is an insertion-ordered string-keyed map, used as the
// backing store for Value's Object variant. A plain Go map cannot
// preserve key order, which JXC's round-trip guarantee (spec.md §2)
// requires, so Object keeps entries in a slice and indexes them for
// O(1) lookup.
type Object struct {
	entries []objectEntry
	index   map[string]int
	policy  DuplicateKeyPolicy
}

// NewOrderedObject returns an empty Object using LastWins semantics.
func NewOrderedObject() *Object {
	return &Object{index: make(map[string]int)}
}

// NewOrderedObjectWithPolicy returns an empty Object using the given
// duplicate-key policy.
func NewOrderedObjectWithPolicy(policy DuplicateKeyPolicy) *Object {
	return &Object{index: make(map[string]int), policy: policy}
}

// Len reports the number of entries, including duplicate keys under
// KeepAll.
func (o *Object) Len() int { return len(o.entries) }

// Get returns the first value stored under key, and whether it was
// present.
func (o *Object) Get(key string) (*Value, bool) {
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.entries[i].value, true
}

// GetAll returns every value stored under key, in insertion order.
// Only meaningful when the Object uses KeepAll.
func (o *Object) GetAll(key string) []*Value {
	var out []*Value
	for _, e := range o.entries {
		if e.key == key {
			out = append(out, e.value)
		}
	}
	return out
}

// Set inserts or updates key according to the Object's duplicate-key
// policy.
func (o *Object) Set(key string, val *Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok && o.policy == LastWins {
		o.entries[i].value = val
		return
	}
	if _, ok := o.index[key]; !ok {
		o.index[key] = len(o.entries)
	}
	o.entries = append(o.entries, objectEntry{key: key, value: val})
}

// Delete removes the first entry stored under key, if present.
func (o *Object) Delete(key string) {
	i, ok := o.index[key]
	if !ok {
		return
	}
	o.entries = append(o.entries[:i], o.entries[i+1:]...)
	delete(o.index, key)
	for k, idx := range o.index {
		if idx > i {
			o.index[k] = idx - 1
		}
	}
	for j := i; j < len(o.entries); j++ {
		if o.entries[j].key == key {
			o.index[key] = j
			break
		}
	}
}

// Keys returns the ordered list of keys, including duplicates under
// KeepAll.
func (o *Object) Keys() []string {
	out := make([]string, len(o.entries))
	for i, e := range o.entries {
		out[i] = e.key
	}
	return out
}

// Each iterates entries in insertion order, stopping early if fn
// returns false.
func (o *Object) Each(fn func(key string, val *Value) bool) {
	for _, e := range o.entries {
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Equal performs a structural, order-sensitive comparison.
func (o *Object) Equal(other *Object) bool {
	if other == nil || len(o.entries) != len(other.entries) {
		return false
	}
	for i, e := range o.entries {
		oe := other.entries[i]
		if e.key != oe.key || !e.value.EqualValueTo(oe.value) {
			return false
		}
	}
	return true
}
