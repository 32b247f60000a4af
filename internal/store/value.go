package store

import (
	"maps"
	"slices"
)

// Value is a value held by the Store. The set of variants is closed:
// String, Words and Record.
type Value interface {
	// Kind names the variant ("string", "words" or "record").
	Kind() string

	clone() Value
}

// String is a single string value.
type String string

// Words is an ordered sequence of strings, e.g. a mnemonic.
type Words []string

// Record is a flat string-keyed record.
type Record map[string]string

// Kind implements Value.
func (String) Kind() string { return "string" }

// Kind implements Value.
func (Words) Kind() string { return "words" }

// Kind implements Value.
func (Record) Kind() string { return "record" }

func (s String) clone() Value { return s }

func (w Words) clone() Value { return Words(slices.Clone([]string(w))) }

func (r Record) clone() Value { return Record(maps.Clone(map[string]string(r))) }

func cloneValue(v Value) Value {
	if v == nil {
		return nil
	}
	return v.clone()
}
