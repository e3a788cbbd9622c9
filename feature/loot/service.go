package loot

import (
	"context"

	"lootdex/core/corpus"

	"go.uber.org/zap"
)

// Service exposes the loot resolution engine to the HTTP layer and the CLI.
type Service struct {
	store    *corpus.Store
	resolver *Resolver
	logger   *zap.Logger
}

// NewService creates a new loot service over the shared corpus store.
func NewService(store *corpus.Store, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		resolver: NewResolver(store, logger),
		logger:   logger,
	}
}

// Resolve returns every loot table and bucket that can produce the item.
func (s *Service) Resolve(ctx context.Context, itemID string) (*Resolution, error) {
	return s.resolver.Resolve(ctx, itemID)
}
