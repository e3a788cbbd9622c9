// Package items provides search and lookup over the item corpus.
//
// Search is shard-scoped: a non-empty query only loads the shard matching
// the query's first character, bounding per-keystroke cost to one shard's
// worth of scanning instead of the full corpus. The accepted trade-off is
// that matches whose id starts with a different character than the query
// are missed. An empty query falls back to the full corpus.
package items
