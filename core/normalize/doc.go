// Package normalize canonicalizes field names, display text, and identifiers
// so lookups survive the casing, punctuation, and spelling drift between
// export passes of the game-data dump.
//
// # Field Lookup
//
// Different dump revisions expose the same logical field under synonymous
// names ("MaxRoll" vs "Max", "AND/OR" vs "ANDOR"). A FieldLookup is a static
// priority table over candidate names, built once; a Record wraps one raw
// row and indexes its keys once. Resolving a field is then a map hit per
// candidate rather than a rescan of the row:
//
//	var maxRoll = normalize.NewFieldLookup("MaxRoll", "Max")
//
//	rec := normalize.WrapRecord(raw)
//	if v, name, ok := rec.Field(maxRoll); ok { ... }
//
// Candidate order defines priority: the first matching name wins and no
// merging across synonyms takes place.
//
// All normalization functions are pure, total (nil input is treated as the
// empty string), and idempotent.
package normalize
