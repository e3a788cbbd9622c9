// Package loot implements the loot resolution engine: given an item id,
// discover every loot table and loot bucket that can produce it, across the
// incompatible schema variants produced by different export passes of the
// same game data.
//
// Two layers cooperate:
//
//   - The record extractor reads a single legacy loot-table or loot-bucket
//     row of unknown shape. A classifier tags the row as Structured (a real
//     sub-list of item rows), ColumnNumbered (flat Item1/Qty1/Probs1
//     columns), or FreeText (no recognizable layout at all, scanned with a
//     loot-noun heuristic). Exactly one strategy fires per row.
//
//   - The resolver cross-references the flattened loot-table entries, the
//     buckets-by-item partition, and the legacy collections into one answer:
//     direct table hits, indirect hits through buckets, direct bucket rows,
//     tables sharing those buckets, and heuristic legacy hits. Exact and
//     heuristic sources are reported separately because their confidence
//     levels differ.
//
// Resolution is a pure function of the item id and the corpus caches;
// repeated calls are idempotent modulo cache population.
package loot
