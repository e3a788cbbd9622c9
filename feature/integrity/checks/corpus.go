package checks

import (
	"context"
	"fmt"

	"lootdex/core/corpus"
	"lootdex/core/storage"

	"github.com/minio/minio-go/v7"
)

// RequiredCorpusObjects lists the dump objects every session depends on.
func RequiredCorpusObjects(cfg corpus.Config) []string {
	return []string{
		cfg.ItemsManifestObject(),
		cfg.BucketsByItemManifestObject(),
		cfg.FlatTablesObject(),
		cfg.LegacyTablesObject(),
		cfg.LegacyBucketsObject(),
		cfg.LootLimitsObject(),
		cfg.RepairMapObject(),
	}
}

// CheckCorpus returns the required dump objects missing from the bucket.
func CheckCorpus(ctx context.Context, client storage.Client, bucket string, cfg corpus.Config) ([]string, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	var missing []string
	for _, object := range RequiredCorpusObjects(cfg) {
		opts := minio.ListObjectsOptions{
			Prefix:    object,
			Recursive: false,
			MaxKeys:   1,
		}

		found := false
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err == nil && obj.Key == object {
				found = true
			}
			break
		}

		if !found {
			missing = append(missing, object)
		}
	}

	return missing, nil
}
