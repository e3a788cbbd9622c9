package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"lootdex/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeDumpFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestPublishDumpUploadsJSONPreservingPaths(t *testing.T) {
	dir := t.TempDir()
	writeDumpFile(t, dir, "items/manifest.json", `{"files":{}}`)
	writeDumpFile(t, dir, "items/items_a.json", `[]`)
	writeDumpFile(t, dir, "loot_tables_flat.json", `[]`)
	writeDumpFile(t, dir, "notes.txt", "not a dump file")

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "test-bucket", mock.AnythingOfType("string"),
		mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	uploaded, err := publishDump(context.Background(), client, "test-bucket", "data", dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, uploaded)

	client.AssertCalled(t, "PutObject", mock.Anything, "test-bucket", "data/items/manifest.json",
		mock.Anything, mock.AnythingOfType("int64"), mock.Anything)
	client.AssertCalled(t, "PutObject", mock.Anything, "test-bucket", "data/loot_tables_flat.json",
		mock.Anything, mock.AnythingOfType("int64"), mock.Anything)
	// The .txt file never left the directory.
	client.AssertNumberOfCalls(t, "PutObject", 3)
}

func TestPublishDumpAbortsOnUploadFailure(t *testing.T) {
	dir := t.TempDir()
	writeDumpFile(t, dir, "loot_limits.json", `[]`)

	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "test-bucket", mock.AnythingOfType("string"),
		mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	_, err := publishDump(context.Background(), client, "test-bucket", "data", dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload data/loot_limits.json")
}
