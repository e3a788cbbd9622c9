package corpus

// Config holds the object layout of the dump inside the bucket.
type Config struct {
	// Prefix is the key prefix under which the dump objects live.
	Prefix string `mapstructure:"prefix" default:"data"`
}

func (c Config) ItemsManifestObject() string {
	return c.Prefix + "/items/manifest.json"
}

func (c Config) ItemShardObject(file string) string {
	return c.Prefix + "/items/" + file
}

func (c Config) BucketsByItemManifestObject() string {
	return c.Prefix + "/loot_buckets_by_item/manifest.json"
}

func (c Config) BucketsByItemShardObject(file string) string {
	return c.Prefix + "/loot_buckets_by_item/" + file
}

func (c Config) FlatTablesObject() string {
	return c.Prefix + "/loot_tables_flat.json"
}

func (c Config) LegacyTablesObject() string {
	return c.Prefix + "/loot_tables.json"
}

func (c Config) LegacyBucketsObject() string {
	return c.Prefix + "/loot_buckets.json"
}

func (c Config) LootLimitsObject() string {
	return c.Prefix + "/loot_limits.json"
}

func (c Config) RepairMapObject() string {
	return c.Prefix + "/repair_map.json"
}
