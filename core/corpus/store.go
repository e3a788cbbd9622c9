package corpus

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"lootdex/core/normalize"
	"lootdex/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MiscShard is the shard key for ids whose first character is not
// alphanumeric.
const MiscShard = "misc"

// ShardKeyOf computes the shard key of an id: its first character,
// lowercased, when alphanumeric; MiscShard otherwise. Shard membership is
// derived purely from the id string and never looked up.
func ShardKeyOf(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return MiscShard
	}
	r := []rune(strings.ToLower(trimmed))[0]
	if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
		return string(r)
	}
	return MiscShard
}

// Store is the session-scoped cache over the dump corpus. It is constructed
// once and shared by reference between the search index and the resolver.
type Store struct {
	client storage.Client
	bucket string
	cfg    Config
	logger *zap.Logger

	mu sync.RWMutex
	sf singleflight.Group

	manifest       *Manifest
	bucketManifest *Manifest
	shards         map[string][]Item
	bucketShards   map[string][]BucketRow
	names          map[string]string

	all       []Item
	allLoaded bool

	flatTables       []LootTableEntry
	flatLoaded       bool
	legacyTables     []map[string]any
	legacyTLoaded    bool
	legacyBuckets    []map[string]any
	legacyBLoaded    bool
	lootLimits       []map[string]any
	lootLimitsLoaded bool
	repair           RepairMap
	repairLoaded     bool
}

// NewStore creates a corpus store over the given bucket.
func NewStore(client storage.Client, bucket string, cfg Config, logger *zap.Logger) *Store {
	return &Store{
		client:       client,
		bucket:       bucket,
		cfg:          cfg,
		logger:       logger,
		shards:       make(map[string][]Item),
		bucketShards: make(map[string][]BucketRow),
		names:        make(map[string]string),
	}
}

// fetchJSON downloads and decodes one dump object. Every fetch carries
// cache-defeating decoration so repeated fetches observe the latest
// published dump; the in-memory maps are the only layer that deduplicates
// lookups within a session.
func (s *Store) fetchJSON(ctx context.Context, object string, out any) error {
	opts := minio.GetObjectOptions{}
	opts.Set("Cache-Control", "no-cache")
	opts.AddReqParam("nocache", uuid.NewString())

	rc, err := s.client.GetObject(ctx, s.bucket, object, opts)
	if err != nil {
		return err
	}
	defer rc.Close()

	return json.NewDecoder(rc).Decode(out)
}

// loadOnce memoizes one fetch behind singleflight so concurrent first
// loads of the same key collapse into a single request. get and put carry
// the cache access under the store's lock.
func loadOnce[T any](ctx context.Context, s *Store, key, object string, get func() (T, bool), put func(T)) (T, error) {
	if v, ok := get(); ok {
		return v, nil
	}
	res, err, _ := s.sf.Do(key, func() (any, error) {
		if v, ok := get(); ok {
			return v, nil
		}
		var out T
		if err := s.fetchJSON(ctx, object, &out); err != nil {
			return nil, err
		}
		put(out)
		return out, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Manifest returns the item-shard manifest, fetching it on first use.
// Failure is reported as *ManifestError: without the manifest no shard can
// be addressed, so callers treat it as fatal for the session.
func (s *Store) Manifest(ctx context.Context) (*Manifest, error) {
	object := s.cfg.ItemsManifestObject()
	m, err := loadOnce(ctx, s, "items-manifest", object,
		func() (*Manifest, bool) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.manifest, s.manifest != nil
		},
		func(m *Manifest) {
			s.mu.Lock()
			s.manifest = m
			s.mu.Unlock()
		})
	if err != nil {
		return nil, &ManifestError{Object: object, Err: err}
	}
	return m, nil
}

// Shard returns the items of one shard, fetching and caching the shard file
// on first use. A key the manifest does not know is an empty shard, not an
// error.
func (s *Store) Shard(ctx context.Context, key string) ([]Item, error) {
	key = normalize.ID(key)

	s.mu.RLock()
	items, ok := s.shards[key]
	s.mu.RUnlock()
	if ok {
		return items, nil
	}

	m, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}
	file, ok := m.Files[key]
	if !ok {
		return nil, nil
	}

	object := s.cfg.ItemShardObject(file)
	items, err = loadOnce(ctx, s, "shard:"+key, object,
		func() ([]Item, bool) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			v, ok := s.shards[key]
			return v, ok
		},
		func(v []Item) {
			s.mu.Lock()
			s.shards[key] = v
			s.mu.Unlock()
		})
	if err != nil {
		return nil, &ShardError{Key: key, Object: object, Err: err}
	}
	return items, nil
}

// AllItems loads every shard the manifest references and returns the cached
// concatenation, in stable (sorted shard key) order. Used when no narrower
// shard scope is determinable, e.g. an empty search query.
func (s *Store) AllItems(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	all, loaded := s.all, s.allLoaded
	s.mu.RUnlock()
	if loaded {
		return all, nil
	}

	m, err := s.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(m.Files))
	for k := range m.Files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	all = make([]Item, 0)
	for _, k := range keys {
		items, err := s.Shard(ctx, k)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}

	s.mu.Lock()
	s.all = all
	s.allLoaded = true
	s.mu.Unlock()
	return all, nil
}

// BucketsForItem returns the rows of the buckets-by-item partition covering
// the given item id. The partitioning is built independently of the item
// shards and keyed by the id of the contained item, so the returned rows
// still need matching against the exact id. A shard key unknown to the
// bucket manifest yields an empty result.
func (s *Store) BucketsForItem(ctx context.Context, itemID string) ([]BucketRow, error) {
	key := ShardKeyOf(itemID)

	s.mu.RLock()
	rows, ok := s.bucketShards[key]
	s.mu.RUnlock()
	if ok {
		return rows, nil
	}

	manifestObject := s.cfg.BucketsByItemManifestObject()
	m, err := loadOnce(ctx, s, "buckets-manifest", manifestObject,
		func() (*Manifest, bool) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.bucketManifest, s.bucketManifest != nil
		},
		func(m *Manifest) {
			s.mu.Lock()
			s.bucketManifest = m
			s.mu.Unlock()
		})
	if err != nil {
		return nil, &ManifestError{Object: manifestObject, Err: err}
	}

	file, ok := m.Files[key]
	if !ok {
		return nil, nil
	}

	object := s.cfg.BucketsByItemShardObject(file)
	rows, err = loadOnce(ctx, s, "bucket-shard:"+key, object,
		func() ([]BucketRow, bool) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			v, ok := s.bucketShards[key]
			return v, ok
		},
		func(v []BucketRow) {
			s.mu.Lock()
			s.bucketShards[key] = v
			s.mu.Unlock()
		})
	if err != nil {
		return nil, &ShardError{Key: key, Object: object, Err: err}
	}
	return rows, nil
}

// FlatTables returns the flattened loot-table entries (global, unsharded).
func (s *Store) FlatTables(ctx context.Context) ([]LootTableEntry, error) {
	return loadOnce(ctx, s, "flat-tables", s.cfg.FlatTablesObject(),
		func() ([]LootTableEntry, bool) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.flatTables, s.flatLoaded
		},
		func(v []LootTableEntry) {
			s.mu.Lock()
			s.flatTables = v
			s.flatLoaded = true
			s.mu.Unlock()
		})
}

// LegacyTables returns the legacy loot-table rows, which have no fixed
// schema and are decoded as raw maps for the record extractor.
func (s *Store) LegacyTables(ctx context.Context) ([]map[string]any, error) {
	return loadOnce(ctx, s, "legacy-tables", s.cfg.LegacyTablesObject(),
		func() ([]map[string]any, bool) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.legacyTables, s.legacyTLoaded
		},
		func(v []map[string]any) {
			s.mu.Lock()
			s.legacyTables = v
			s.legacyTLoaded = true
			s.mu.Unlock()
		})
}

// LegacyBuckets returns the legacy loot-bucket rows as raw maps.
func (s *Store) LegacyBuckets(ctx context.Context) ([]map[string]any, error) {
	return loadOnce(ctx, s, "legacy-buckets", s.cfg.LegacyBucketsObject(),
		func() ([]map[string]any, bool) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.legacyBuckets, s.legacyBLoaded
		},
		func(v []map[string]any) {
			s.mu.Lock()
			s.legacyBuckets = v
			s.legacyBLoaded = true
			s.mu.Unlock()
		})
}

// LootLimits returns the loot-limit rows as raw maps.
func (s *Store) LootLimits(ctx context.Context) ([]map[string]any, error) {
	return loadOnce(ctx, s, "loot-limits", s.cfg.LootLimitsObject(),
		func() ([]map[string]any, bool) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.lootLimits, s.lootLimitsLoaded
		},
		func(v []map[string]any) {
			s.mu.Lock()
			s.lootLimits = v
			s.lootLimitsLoaded = true
			s.mu.Unlock()
		})
}

// Repairs returns the repair map annotation data.
func (s *Store) Repairs(ctx context.Context) (RepairMap, error) {
	return loadOnce(ctx, s, "repair-map", s.cfg.RepairMapObject(),
		func() (RepairMap, bool) {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return s.repair, s.repairLoaded
		},
		func(v RepairMap) {
			s.mu.Lock()
			s.repair = v
			s.repairLoaded = true
			s.mu.Unlock()
		})
}

// FindItem looks up a single item by id inside its shard. Returns nil when
// the corpus does not know the id.
func (s *Store) FindItem(ctx context.Context, id string) (*Item, error) {
	norm := normalize.ID(id)
	items, err := s.Shard(ctx, ShardKeyOf(norm))
	if err != nil {
		return nil, err
	}
	for i := range items {
		if normalize.ID(items[i].ID) == norm {
			return &items[i], nil
		}
	}
	return nil, nil
}

// DisplayName resolves an item id to its display name through a dedicated
// cache, falling back to the raw id when the corpus has no name for it.
// Used to label cross-references without re-rendering whole records.
func (s *Store) DisplayName(ctx context.Context, id string) (string, error) {
	norm := normalize.ID(id)

	s.mu.RLock()
	name, ok := s.names[norm]
	s.mu.RUnlock()
	if ok {
		return name, nil
	}

	item, err := s.FindItem(ctx, id)
	if err != nil {
		return "", err
	}
	name = id
	if item != nil && item.Name != "" {
		name = item.Name
	}

	s.mu.Lock()
	s.names[norm] = name
	s.mu.Unlock()
	return name, nil
}
