package items

import (
	"context"
	"strings"

	"lootdex/core/corpus"

	"go.uber.org/zap"
)

// fallbackShards is scanned when the query's first character maps to no
// manifest shard: early-alphabet shards give the search something useful
// to chew on instead of an empty answer.
var fallbackShards = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

// Service handles item search and lookup.
type Service struct {
	store  *corpus.Store
	logger *zap.Logger
}

// NewService creates a new items service over the shared corpus store.
func NewService(store *corpus.Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Search returns the items matching the query by case-insensitive substring
// on id or name. An empty query returns the full corpus; a non-empty query
// scans only the shard derived from its first character.
func (s *Service) Search(ctx context.Context, query string) ([]corpus.Item, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return s.store.AllItems(ctx)
	}

	m, err := s.store.Manifest(ctx)
	if err != nil {
		return nil, err
	}

	key := corpus.ShardKeyOf(q)
	var pool []corpus.Item
	if _, ok := m.Files[key]; ok {
		pool, err = s.store.Shard(ctx, key)
		if err != nil {
			return nil, err
		}
	} else {
		for _, k := range fallbackShards {
			if _, ok := m.Files[k]; !ok {
				continue
			}
			items, err := s.store.Shard(ctx, k)
			if err != nil {
				// One broken shard must not take the whole search down.
				s.logger.Warn("skipping unreachable shard", zap.String("shard", k), zap.Error(err))
				continue
			}
			pool = append(pool, items...)
		}
	}

	lower := strings.ToLower(q)
	filtered := make([]corpus.Item, 0)
	for _, it := range pool {
		if strings.Contains(strings.ToLower(it.ID), lower) ||
			strings.Contains(strings.ToLower(it.Name), lower) {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

// Get looks up a single item by id. Returns nil when the corpus does not
// know the id.
func (s *Service) Get(ctx context.Context, id string) (*corpus.Item, error) {
	return s.store.FindItem(ctx, id)
}

// DisplayName resolves an item id to its display name, falling back to the
// raw id.
func (s *Service) DisplayName(ctx context.Context, id string) (string, error) {
	return s.store.DisplayName(ctx, id)
}
