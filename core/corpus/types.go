package corpus

// Rarity is the item rarity band carried by the dump.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityArtifact  Rarity = "artifact"
)

// Item is one row of an item shard file. The export pipeline emits short
// keys to keep shard files small.
type Item struct {
	ID      string  `json:"id"`
	Name    string  `json:"n"`
	Type    string  `json:"t"`
	Tier    *int    `json:"tr"`
	IconURL *string `json:"ic"`
	Rarity  Rarity  `json:"ra"`
	Named   bool    `json:"nm"`
}

// Manifest maps shard keys to the file holding that shard. The same shape
// is used for the item shards and the buckets-by-item shards.
type Manifest struct {
	Files map[string]string `json:"files"`
}

// RefType discriminates what a flattened loot-table entry points at.
type RefType string

const (
	// RefItem means the entry's ref is a direct item id.
	RefItem RefType = "item"
	// RefBucket means the ref is a loot-bucket id.
	RefBucket RefType = "lbid"
	// RefTable means the ref is a nested loot-table id.
	RefTable RefType = "ltid"
)

// LootTableEntry is one row of the flattened loot-table export. Entries of
// one table are ordered by Index. ProbabilityThreshold values are cumulative
// roll thresholds in 0..MaxRoll; ascending order is expected but not
// schema-enforced, so consumers must not assume sortedness.
type LootTableEntry struct {
	LootTableID          string   `json:"lootTableId"`
	Index                int      `json:"index"`
	RefType              RefType  `json:"refType"`
	Ref                  string   `json:"ref"`
	Qty                  *float64 `json:"qty"`
	ProbabilityThreshold *float64 `json:"probabilityThreshold"`
	Logic                string   `json:"logic"`
	RollBonusSetting     string   `json:"rollBonusSetting"`
	MaxRoll              *float64 `json:"maxRoll"`
}

// BucketRow is one row of the buckets-by-item partitioning. A bucket may
// list the same item several times with different odds or quantity;
// (bucketId, itemId) is not a unique key.
type BucketRow struct {
	BucketID string   `json:"bucketId"`
	ItemID   string   `json:"itemId"`
	Quantity *float64 `json:"quantity"`
	Odds     *float64 `json:"odds"`
	MatchOne *bool    `json:"matchOne"`
	Tags     *string  `json:"tags"`
}

// RepairMap maps a loot-table id to the items whose use/salvage action
// opens that table. Auxiliary annotation data, read-only.
type RepairMap map[string][]string
