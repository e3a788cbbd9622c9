package loot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"lootdex/core/corpus"
	"lootdex/core/normalize"
	"lootdex/core/utils"

	"go.uber.org/zap"
)

// EntryHit is one flattened loot-table entry that yields the queried item.
type EntryHit struct {
	Index                int            `json:"index"`
	RefType              corpus.RefType `json:"refType"`
	Ref                  string         `json:"ref"`
	Qty                  *float64       `json:"qty"`
	ProbabilityThreshold *float64       `json:"probabilityThreshold"`
	Probability          string         `json:"probability"`
}

// TableHit groups the matching entries of one loot table. Metadata is taken
// from the first entry encountered; entries are assumed metadata-homogeneous
// within one table, which holds for well-formed exports but is not
// re-validated here.
type TableHit struct {
	LootTableID      string     `json:"lootTableId"`
	Logic            string     `json:"logic"`
	RollBonusSetting string     `json:"rollBonusSetting"`
	MaxRoll          string     `json:"maxRoll"`
	ViaBucket        string     `json:"viaBucket,omitempty"`
	OpenedBy         []string   `json:"openedBy,omitempty"`
	Entries          []EntryHit `json:"entries"`
}

// BucketHit is one bucket row that directly lists the queried item. All
// matching rows are kept: a bucket may legitimately list the same item
// several times with different odds, and none of those alternatives are
// dropped.
type BucketHit struct {
	BucketID    string   `json:"bucketId"`
	ItemID      string   `json:"itemId"`
	Quantity    *float64 `json:"quantity"`
	Odds        *float64 `json:"odds"`
	OddsDisplay string   `json:"oddsDisplay"`
	MatchOne    *bool    `json:"matchOne,omitempty"`
	Tags        *string  `json:"tags,omitempty"`
}

// BucketUsage lists the loot tables referencing one of the buckets found in
// the direct-bucket step, independent of the originating item.
type BucketUsage struct {
	BucketID     string   `json:"bucketId"`
	LootTableIDs []string `json:"lootTableIds"`
}

// LegacyHit is a heuristic hit in a legacy (non-flattened) collection,
// produced by the record extractor. Reported separately from the exact hits
// because the confidence levels differ.
type LegacyHit struct {
	SourceID   string    `json:"sourceId"`
	Triplets   []Triplet `json:"triplets"`
	Metadata   Metadata  `json:"metadata"`
	Conditions []string  `json:"conditions,omitempty"`
}

// LimitHit is a loot-limit row annotating the queried item.
type LimitHit struct {
	LimitID    string   `json:"limitId"`
	MaxCount   *float64 `json:"maxCount"`
	ResetAfter string   `json:"resetAfter"`
}

// Resolution is the full cross-reference answer for one item id.
type Resolution struct {
	ItemID             string        `json:"itemId"`
	DisplayName        string        `json:"displayName"`
	DirectTables       []TableHit    `json:"directTables"`
	IndirectTables     []TableHit    `json:"indirectTables"`
	DirectBuckets      []BucketHit   `json:"directBuckets"`
	TablesUsingBuckets []BucketUsage `json:"tablesUsingTheseBuckets"`
	LegacyTables       []LegacyHit   `json:"legacyTables"`
	LegacyBuckets      []LegacyHit   `json:"legacyBuckets"`
	Limits             []LimitHit    `json:"limits,omitempty"`
	SalvageTables      []string      `json:"salvageTables,omitempty"`
	// Notes carries inline messages for data sources that could not be
	// consulted. A note never aborts the resolution; the remaining sources
	// stay usable.
	Notes []string `json:"notes,omitempty"`
}

// Resolver cross-references an item id against every loot data source the
// corpus carries. Stateless: resolution is a pure function of the id and
// the store's caches.
type Resolver struct {
	store  *corpus.Store
	logger *zap.Logger
}

// NewResolver creates a resolver over the given corpus store.
func NewResolver(store *corpus.Store, logger *zap.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve answers: which loot tables and buckets can produce this item?
// The item-shard manifest being unreachable is the only fatal condition;
// every other failing source degrades to an inline note.
func (r *Resolver) Resolve(ctx context.Context, itemID string) (*Resolution, error) {
	normID := normalize.ID(itemID)
	res := &Resolution{
		ItemID:             itemID,
		DirectTables:       []TableHit{},
		IndirectTables:     []TableHit{},
		DirectBuckets:      []BucketHit{},
		TablesUsingBuckets: []BucketUsage{},
		LegacyTables:       []LegacyHit{},
		LegacyBuckets:      []LegacyHit{},
	}

	name, err := r.store.DisplayName(ctx, itemID)
	if err != nil {
		var me *corpus.ManifestError
		if errors.As(err, &me) {
			return nil, err
		}
		r.note(res, "display name", err)
		name = itemID
	}
	res.DisplayName = name
	normName := normalize.Text(name)

	// Direct bucket rows from the buckets-by-item partition. Rows may store
	// a display name instead of an id, so both are matched.
	bucketIDs := map[string]string{}
	rows, err := r.store.BucketsForItem(ctx, normID)
	if err != nil {
		r.note(res, "loot buckets", err)
	}
	for _, row := range rows {
		if !rowMatchesItem(row, normID, normName) {
			continue
		}
		bucketIDs[normalize.ID(row.BucketID)] = row.BucketID
		res.DirectBuckets = append(res.DirectBuckets, BucketHit{
			BucketID:    row.BucketID,
			ItemID:      row.ItemID,
			Quantity:    row.Quantity,
			Odds:        row.Odds,
			OddsDisplay: FormatProbability(floatValue(row.Odds)),
			MatchOne:    row.MatchOne,
			Tags:        row.Tags,
		})
	}

	entries, err := r.store.FlatTables(ctx)
	if err != nil {
		r.note(res, "flattened loot tables", err)
	}

	var direct, indirect []corpus.LootTableEntry
	for _, e := range entries {
		switch e.RefType {
		case corpus.RefItem:
			if normalize.ID(e.Ref) == normID {
				direct = append(direct, e)
			}
		case corpus.RefBucket:
			if _, ok := bucketIDs[normalize.ID(e.Ref)]; ok {
				indirect = append(indirect, e)
			}
		}
	}

	openedBy := r.repairIndex(ctx, res)
	res.DirectTables = groupTableHits(direct, false, openedBy)
	res.IndirectTables = groupTableHits(indirect, true, openedBy)

	// Secondary query: every table reaching the same buckets, independent
	// of the originating item.
	res.TablesUsingBuckets = bucketUsage(entries, bucketIDs)

	if tables, err := r.store.LegacyTables(ctx); err != nil {
		r.note(res, "legacy loot tables", err)
	} else {
		res.LegacyTables = legacyHits(tables, tableIDField, normID)
	}
	if buckets, err := r.store.LegacyBuckets(ctx); err != nil {
		r.note(res, "legacy loot buckets", err)
	} else {
		res.LegacyBuckets = legacyHits(buckets, bucketIDField, normID)
	}

	if limits, err := r.store.LootLimits(ctx); err != nil {
		r.note(res, "loot limits", err)
	} else {
		res.Limits = limitHits(limits, normID)
	}

	res.SalvageTables = salvageTables(openedBy, normID)
	return res, nil
}

func (r *Resolver) note(res *Resolution, source string, err error) {
	if err == nil {
		return
	}
	r.logger.Warn("loot source unavailable", zap.String("source", source), zap.Error(err))
	res.Notes = append(res.Notes, fmt.Sprintf("%s unavailable: %v", source, err))
}

// repairIndex loads the repair map keyed by normalized table id. Failure is
// an inline note; annotations are auxiliary.
func (r *Resolver) repairIndex(ctx context.Context, res *Resolution) map[string]repairEntry {
	repairs, err := r.store.Repairs(ctx)
	if err != nil {
		r.note(res, "repair map", err)
		return nil
	}
	index := make(map[string]repairEntry, len(repairs))
	for tableID, items := range repairs {
		index[normalize.ID(tableID)] = repairEntry{tableID: tableID, items: items}
	}
	return index
}

type repairEntry struct {
	tableID string
	items   []string
}

func rowMatchesItem(row corpus.BucketRow, normID, normName string) bool {
	if normalize.ID(row.ItemID) == normID {
		return true
	}
	return normName != "" && normalize.Text(row.ItemID) == normName
}

// groupTableHits merges entries by loot-table id, keeping first-encounter
// order. Metadata comes from the first entry of each group.
func groupTableHits(entries []corpus.LootTableEntry, viaBucket bool, openedBy map[string]repairEntry) []TableHit {
	hits := []TableHit{}
	index := map[string]int{}

	for _, e := range entries {
		key := normalize.ID(e.LootTableID)
		i, seen := index[key]
		if !seen {
			hit := TableHit{
				LootTableID:      e.LootTableID,
				Logic:            orUnknown(e.Logic),
				RollBonusSetting: orUnknown(e.RollBonusSetting),
				MaxRoll:          maxRollLabel(e.MaxRoll),
			}
			if viaBucket {
				hit.ViaBucket = e.Ref
			}
			if re, ok := openedBy[key]; ok {
				hit.OpenedBy = re.items
			}
			hits = append(hits, hit)
			i = len(hits) - 1
			index[key] = i
		}
		hits[i].Entries = append(hits[i].Entries, EntryHit{
			Index:                e.Index,
			RefType:              e.RefType,
			Ref:                  e.Ref,
			Qty:                  e.Qty,
			ProbabilityThreshold: e.ProbabilityThreshold,
			Probability:          FormatProbability(floatValue(e.ProbabilityThreshold)),
		})
	}
	return hits
}

func bucketUsage(entries []corpus.LootTableEntry, bucketIDs map[string]string) []BucketUsage {
	keys := make([]string, 0, len(bucketIDs))
	for k := range bucketIDs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	usage := []BucketUsage{}
	for _, key := range keys {
		var tables []string
		seen := map[string]bool{}
		for _, e := range entries {
			if e.RefType != corpus.RefBucket || normalize.ID(e.Ref) != key {
				continue
			}
			tk := normalize.ID(e.LootTableID)
			if !seen[tk] {
				seen[tk] = true
				tables = append(tables, e.LootTableID)
			}
		}
		usage = append(usage, BucketUsage{BucketID: bucketIDs[key], LootTableIDs: tables})
	}
	return usage
}

// legacyHits runs the record extractor over a legacy collection and keeps
// the records with at least one triplet matching the item. Free-text
// triplets match by containment, which is the lossy end of the heuristic.
func legacyHits(records []map[string]any, idField normalize.FieldLookup, normID string) []LegacyHit {
	hits := []LegacyHit{}
	for _, raw := range records {
		triplets := ExtractTriplets(raw)
		var matched []Triplet
		for _, t := range triplets {
			tid := normalize.ID(t.ItemID)
			if tid == normID || strings.Contains(tid, normID) {
				matched = append(matched, t)
			}
		}
		if len(matched) == 0 {
			continue
		}

		rec := normalize.WrapRecord(raw)
		sourceID := UnknownField
		if v, _, ok := rec.Field(idField); ok {
			if s := strings.TrimSpace(utils.ToString(v)); s != "" {
				sourceID = s
			}
		}
		hits = append(hits, LegacyHit{
			SourceID:   sourceID,
			Triplets:   matched,
			Metadata:   ExtractMetadata(raw),
			Conditions: ExtractConditions(raw),
		})
	}
	return hits
}

func limitHits(records []map[string]any, normID string) []LimitHit {
	var hits []LimitHit
	for _, raw := range records {
		rec := normalize.WrapRecord(raw)
		v, _, ok := rec.Field(limitIDField)
		if !ok || normalize.ID(utils.ToString(v)) != normID {
			continue
		}
		hit := LimitHit{LimitID: utils.ToString(v), ResetAfter: UnknownField}
		if cv, _, ok := rec.Field(limitCountField); ok {
			if f, ok := utils.ToFloat(cv); ok {
				hit.MaxCount = &f
			}
		}
		if rv, _, ok := rec.Field(limitResetField); ok {
			if s := strings.TrimSpace(utils.ToString(rv)); s != "" {
				hit.ResetAfter = s
			}
		}
		hits = append(hits, hit)
	}
	return hits
}

func salvageTables(openedBy map[string]repairEntry, normID string) []string {
	var tables []string
	for _, re := range openedBy {
		for _, item := range re.items {
			if normalize.ID(item) == normID {
				tables = append(tables, re.tableID)
				break
			}
		}
	}
	sort.Strings(tables)
	return tables
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return UnknownField
	}
	return s
}

func maxRollLabel(v *float64) string {
	if v == nil {
		return UnknownField
	}
	return utils.ToString(*v)
}

func floatValue(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
