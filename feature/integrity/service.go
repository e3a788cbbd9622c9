package integrity

import (
	"context"

	"lootdex/core/corpus"
	"lootdex/core/storage"
	"lootdex/feature/integrity/checks"

	"go.uber.org/zap"
)

// Service handles corpus integrity checks.
type Service struct {
	client storage.Client
	bucket string
	cfg    corpus.Config
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(client storage.Client, bucket string, cfg corpus.Config, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		cfg:    cfg,
		logger: logger,
	}
}

// CheckCorpus returns the required dump objects missing from the bucket.
func (s *Service) CheckCorpus(ctx context.Context) ([]string, error) {
	return checks.CheckCorpus(ctx, s.client, s.bucket, s.cfg)
}
