// Package corpus provides lazy, cached access to the game-data dump stored
// in the object bucket.
//
// The item corpus is partitioned into shards keyed by the lowercase first
// character of the item id ('a'..'z', '0'..'9', 'misc'); a parallel
// partitioning shards loot-bucket rows by the id of the item they contain.
// Both partitionings, the flattened and legacy loot collections, the loot
// limits, and the repair map are fetched on first use and memoized for the
// session inside a Store.
//
// A Store owns all of its cache maps and is constructed once per session;
// there is no package-level state. Caches are append-only: a key is
// populated at most once and never evicted, so repeated lookups within one
// session hit memory. Concurrent first loads of the same key are collapsed
// with singleflight. Underlying fetches carry cache-defeating request
// decoration so a fresh session always observes the latest published dump.
package corpus
