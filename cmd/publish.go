package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"lootdex/core/config"
	"lootdex/core/logger"
	"lootdex/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var publishDir string
var publishCreate bool

// publishCmd uploads a locally exported dump directory into the bucket,
// mirroring the directory layout under the configured corpus prefix.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a dump directory to the corpus bucket",
	Long: `Walks a local dump directory (the output of the export pipeline) and
uploads every JSON file to the storage bucket, preserving relative paths
under the corpus prefix. Running sessions pick the new dump up on their
next fresh fetch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}

		exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
		if err != nil {
			return fmt.Errorf("failed to check bucket: %w", err)
		}
		if !exists {
			if !publishCreate {
				return fmt.Errorf("bucket %s does not exist (use --create)", cfg.Storage.Bucket)
			}
			if err := client.MakeBucket(ctx, cfg.Storage.Bucket, minio.MakeBucketOptions{Region: cfg.Storage.Region}); err != nil {
				return fmt.Errorf("failed to create bucket: %w", err)
			}
			logg.Info("Created bucket", zap.String("bucket", cfg.Storage.Bucket))
		}

		uploaded, err := publishDump(ctx, client, cfg.Storage.Bucket, cfg.Corpus.Prefix, publishDir, logg)
		if err != nil {
			return err
		}

		logg.Info("Publish complete", zap.Int("files", uploaded))
		return nil
	},
}

// publishDump walks dir and uploads every JSON file, preserving relative
// paths under the prefix. Non-JSON files are skipped; the first failing
// upload aborts the walk.
func publishDump(ctx context.Context, client storage.Client, bucket, prefix, dir string, logg *zap.Logger) (int, error) {
	uploaded := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".json") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		object := prefix + "/" + filepath.ToSlash(rel)

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return err
		}

		_, err = client.PutObject(ctx, bucket, object, f, info.Size(), minio.PutObjectOptions{
			ContentType: "application/json",
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", object, err)
		}

		logg.Info("Uploaded", zap.String("object", object), zap.Int64("bytes", info.Size()))
		uploaded++
		return nil
	})
	return uploaded, err
}

func init() {
	publishCmd.Flags().StringVar(&publishDir, "dir", "data", "local dump directory to upload")
	publishCmd.Flags().BoolVar(&publishCreate, "create", false, "create the bucket if it does not exist")
	RootCmd.AddCommand(publishCmd)
}
