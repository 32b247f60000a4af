// Package store provides the in-process key-value store that holds the
// active mnemonic and other named values for the lifetime of a run.
package store

// KeyMnemonic is the well-known key the active mnemonic is stored under.
const KeyMnemonic = "mnemonic"

// Entry is a single key/value pair passed to Set.
type Entry struct {
	Key   string
	Value Value
}

// Store is an in-memory key-value store.
//
// Values are copied on the way in and on the way out, so callers can never
// mutate a stored Words or Record through an alias. Store is not safe for
// concurrent use.
type Store struct {
	data map[string]Value
}

// New creates an empty store.
func New() *Store {
	return &Store{
		data: make(map[string]Value),
	}
}

// Get returns the value stored under key. The second result is false when
// the key has never been set (or was removed).
func (s *Store) Get(key string) (Value, bool) {
	v, ok := s.data[key]
	if !ok {
		return nil, false
	}
	return cloneValue(v), true
}

// Set creates or overwrites each entry, in the order given. A nil Value
// is stored as such; use Remove to delete a key.
func (s *Store) Set(entries ...Entry) {
	for _, e := range entries {
		s.data[e.Key] = cloneValue(e.Value)
	}
}

// Remove deletes key. Removing an absent key is a no-op.
func (s *Store) Remove(key string) {
	delete(s.data, key)
}

// Clear empties the store.
func (s *Store) Clear() {
	clear(s.data)
}

// Entries returns a snapshot of every key/value pair.
func (s *Store) Entries() map[string]Value {
	out := make(map[string]Value, len(s.data))
	for k, v := range s.data {
		out[k] = cloneValue(v)
	}
	return out
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return len(s.data)
}

// GetWords returns the value under key if it is a Words variant.
func (s *Store) GetWords(key string) ([]string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	w, ok := v.(Words)
	if !ok {
		return nil, false
	}
	return []string(w), true
}

// GetString returns the value under key if it is a String variant.
func (s *Store) GetString(key string) (string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := v.(String)
	return string(str), ok
}

// GetRecord returns the value under key if it is a Record variant.
func (s *Store) GetRecord(key string) (map[string]string, bool) {
	v, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	r, ok := v.(Record)
	if !ok {
		return nil, false
	}
	return map[string]string(r), true
}
