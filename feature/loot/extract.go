package loot

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"lootdex/core/normalize"
	"lootdex/core/utils"
)

// UnknownField is the sentinel reported for metadata the record does not
// carry, so rendering code has a single code path.
const UnknownField = "unknown"

// ProbabilityUnset is the sentinel returned by FormatProbability for null
// or empty input.
const ProbabilityUnset = "—"

// Triplet is one (item, quantity, probability) outcome extracted from a
// legacy record. Qty and Probability are nil when the record does not
// encode them.
type Triplet struct {
	ItemID      string   `json:"itemId"`
	Qty         *float64 `json:"qty"`
	Probability *float64 `json:"probability"`
}

// Metadata is the combinational metadata of a loot record.
type Metadata struct {
	Logic            string `json:"logic"`
	RollBonusSetting string `json:"rollBonusSetting"`
	MaxRoll          string `json:"maxRoll"`
}

// Shape tags the record layout resolved once per record by Classify.
type Shape int

const (
	// ShapeStructured records carry a real sub-list of item rows.
	ShapeStructured Shape = iota
	// ShapeColumnNumbered records flatten outcomes into Item<N> columns.
	ShapeColumnNumbered
	// ShapeFreeText records have no recognizable layout; values are scanned
	// with the loot-noun heuristic. Lossy by design: precision is traded
	// for coverage on malformed exports.
	ShapeFreeText
)

// Static synonym tables, built once. Candidate order is priority order.
var (
	structuredListField = normalize.NewFieldLookup("Items", "ItemList", "Entries", "Rows")
	entryItemField      = normalize.NewFieldLookup("ItemID", "Item", "ID", "Name")
	entryQtyField       = normalize.NewFieldLookup("Qty", "Quantity", "Amount")
	entryProbField      = normalize.NewFieldLookup("Probs", "Prob", "Probability", "Chance")

	logicField     = normalize.NewFieldLookup("AND/OR", "Logic")
	rollBonusField = normalize.NewFieldLookup("RollBonusSetting", "RollBonus", "UseLevelGS")
	maxRollField   = normalize.NewFieldLookup("MaxRoll", "Max")

	tableIDField  = normalize.NewFieldLookup("LootTableID", "TableID", "LootTable", "ID", "Name")
	bucketIDField = normalize.NewFieldLookup("LootBucketID", "BucketID", "LootBucket", "ID", "Name")

	limitIDField    = normalize.NewFieldLookup("LootLimitID", "LimitID", "ID")
	limitCountField = normalize.NewFieldLookup("MaxCount", "CountLimit", "Limit")
	limitResetField = normalize.NewFieldLookup("TimeBetweenReset", "LimitExpireSeconds", "Cooldown")
)

var (
	numberedItemKey = regexp.MustCompile(`^item([0-9]+)$`)
	hasLetter       = regexp.MustCompile(`[a-z]`)
	// The loot-noun heuristic for free-text fallback: any string value
	// containing one of these reads as a candidate item reference.
	lootNoun = regexp.MustCompile(`item|weapon|armor|fish`)
)

// asList accepts both the decoded-JSON form ([]any) and the typed form a
// caller may hand over directly.
func asList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// Classify resolves the shape of a raw record once. Strategies 2 and 3 are
// mutually exclusive fallbacks of strategy 1, never cumulative.
func Classify(rec normalize.Record) Shape {
	if v, _, ok := rec.Field(structuredListField); ok {
		if _, isList := asList(v); isList {
			return ShapeStructured
		}
	}
	for _, name := range rec.Keys() {
		if numberedItemKey.MatchString(normalize.Key(name)) {
			return ShapeColumnNumbered
		}
	}
	return ShapeFreeText
}

// ExtractTriplets extracts the (itemId, qty, probability) outcomes a legacy
// record encodes, dispatching on its classified shape. It never fails:
// unusable records yield an empty slice.
func ExtractTriplets(raw map[string]any) []Triplet {
	rec := normalize.WrapRecord(raw)

	switch Classify(rec) {
	case ShapeStructured:
		return structuredTriplets(rec)
	case ShapeColumnNumbered:
		return numberedTriplets(rec)
	default:
		return freeTextTriplets(rec)
	}
}

func structuredTriplets(rec normalize.Record) []Triplet {
	v, _, _ := rec.Field(structuredListField)
	list, _ := asList(v)

	triplets := make([]Triplet, 0, len(list))
	for _, elem := range list {
		row, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		entry := normalize.WrapRecord(row)

		idVal, _, ok := entry.Field(entryItemField)
		if !ok {
			continue
		}
		id := strings.TrimSpace(utils.ToString(idVal))
		if id == "" {
			continue
		}

		t := Triplet{ItemID: id}
		if qv, _, ok := entry.Field(entryQtyField); ok {
			if f, ok := utils.ToFloat(qv); ok {
				t.Qty = &f
			}
		}
		if pv, _, ok := entry.Field(entryProbField); ok {
			if f, ok := utils.ToFloat(pv); ok {
				t.Probability = &f
			}
		}
		triplets = append(triplets, t)
	}
	return triplets
}

func numberedTriplets(rec normalize.Record) []Triplet {
	type column struct {
		n    int
		name string
	}
	var columns []column
	for _, name := range rec.Keys() {
		m := numberedItemKey.FindStringSubmatch(normalize.Key(name))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		columns = append(columns, column{n: n, name: name})
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i].n < columns[j].n })

	raw := rec.Raw()
	triplets := make([]Triplet, 0, len(columns))
	for _, col := range columns {
		id := strings.TrimSpace(utils.ToString(raw[col.name]))
		if id == "" {
			continue
		}

		t := Triplet{ItemID: id}
		qtyLookup := normalize.NewFieldLookup(
			fmt.Sprintf("Quantity%d", col.n),
			fmt.Sprintf("Qty%d", col.n),
		)
		probLookup := normalize.NewFieldLookup(
			fmt.Sprintf("Probs%d", col.n),
			fmt.Sprintf("Prob%d", col.n),
		)
		if qv, _, ok := rec.Field(qtyLookup); ok {
			if f, ok := utils.ToFloat(qv); ok {
				t.Qty = &f
			}
		}
		if pv, _, ok := rec.Field(probLookup); ok {
			if f, ok := utils.ToFloat(pv); ok {
				t.Probability = &f
			}
		}
		triplets = append(triplets, t)
	}
	return triplets
}

func freeTextTriplets(rec normalize.Record) []Triplet {
	names := rec.Keys()
	sort.Strings(names)

	raw := rec.Raw()
	var triplets []Triplet
	for _, name := range names {
		s, isString := raw[name].(string)
		if !isString {
			continue
		}
		probe := normalize.Text(s)
		if !hasLetter.MatchString(probe) || !lootNoun.MatchString(normalize.Key(s)) {
			continue
		}
		triplets = append(triplets, Triplet{ItemID: strings.TrimSpace(s)})
	}
	return triplets
}

// ExtractMetadata reads the combinational metadata of a record. Fields the
// record does not carry report UnknownField, never an empty string.
func ExtractMetadata(raw map[string]any) Metadata {
	rec := normalize.WrapRecord(raw)
	return Metadata{
		Logic:            metadataField(rec, logicField),
		RollBonusSetting: metadataField(rec, rollBonusField),
		MaxRoll:          metadataField(rec, maxRollField),
	}
}

func metadataField(rec normalize.Record, lookup normalize.FieldLookup) string {
	v, _, ok := rec.Field(lookup)
	if !ok {
		return UnknownField
	}
	s := strings.TrimSpace(utils.ToString(v))
	if s == "" {
		return UnknownField
	}
	return s
}

// ExtractConditions collects every non-empty field whose normalized name
// starts with "condition" or "tag" (Tag1, Tag2, ... included), formatted as
// "<fieldName>: <value>".
func ExtractConditions(raw map[string]any) []string {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var conditions []string
	for _, name := range names {
		key := normalize.Key(name)
		if !strings.HasPrefix(key, "condition") && !strings.HasPrefix(key, "tag") {
			continue
		}
		s := strings.TrimSpace(utils.ToString(raw[name]))
		if s == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s: %s", name, s))
	}
	return conditions
}

// FormatProbability renders a probability value for display. Null or empty
// input yields ProbabilityUnset. Numeric values at or below 1 are read as a
// 0..1 fraction and scaled; values above 1 are assumed to already be
// percentage units. The unit heuristic is ambiguous at exactly 1 and for
// tables whose native units are absolute counts; the source data does not
// disambiguate.
func FormatProbability(raw any) string {
	f, ok := utils.ToFloat(raw)
	if !ok {
		return ProbabilityUnset
	}
	if f <= 1 {
		f *= 100
	}
	return fmt.Sprintf("%.2f%%", f)
}
