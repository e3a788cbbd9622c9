package normalize

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes input and removes combining marks, so "é" compares
// equal to "e" in display-name matching.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Key lowercases the input and strips every character outside [a-z0-9].
// It makes field-name lookups tolerant of spacing, punctuation, and casing
// drift between schema revisions ("AND/OR", "ANDOR", "AndOr" all collapse
// to "andor").
func Key(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Text lowercases the input, strips diacritics, collapses runs of
// non-alphanumeric characters to single spaces, and trims. Used for
// display-name comparisons.
func Text(value string) string {
	stripped, _, err := transform.String(stripMarks, value)
	if err != nil {
		stripped = value
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range strings.ToLower(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return b.String()
}

// ID lowercases and trims the input. Identifiers are compared verbatim
// aside from case.
func ID(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// FieldLookup is a priority-ordered list of synonym field names for one
// logical field, with the normalized forms precomputed.
type FieldLookup struct {
	keys []string
}

// NewFieldLookup builds a lookup over the given candidate names. Candidate
// order defines priority when a record exposes more than one synonym.
func NewFieldLookup(names ...string) FieldLookup {
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = Key(n)
	}
	return FieldLookup{keys: keys}
}

// Record wraps one raw dump row with a normalized-key index built once, so
// every subsequent field resolution is O(candidates) map hits.
type Record struct {
	raw   map[string]any
	index map[string]string
}

// WrapRecord indexes a raw row for normalized field access. When two
// original names collide on the same normalized key, the lexicographically
// first one wins, so resolution stays deterministic across runs. A nil map
// yields a Record that resolves nothing.
func WrapRecord(raw map[string]any) Record {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	index := make(map[string]string, len(names))
	for _, name := range names {
		k := Key(name)
		if _, taken := index[k]; !taken {
			index[k] = name
		}
	}
	return Record{raw: raw, index: index}
}

// Field returns the value of the first candidate name present in the
// record, along with the original field name it matched.
func (r Record) Field(lookup FieldLookup) (any, string, bool) {
	for _, k := range lookup.keys {
		if name, ok := r.index[k]; ok {
			return r.raw[name], name, true
		}
	}
	return nil, "", false
}

// Raw returns the underlying row.
func (r Record) Raw() map[string]any {
	return r.raw
}

// Keys returns the original field names of the row in no particular order.
func (r Record) Keys() []string {
	names := make([]string, 0, len(r.raw))
	for name := range r.raw {
		names = append(names, name)
	}
	return names
}
