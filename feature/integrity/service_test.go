package integrity

import (
	"context"
	"errors"
	"testing"

	"lootdex/core/corpus"
	"lootdex/core/storage/mocks"
	"lootdex/feature/integrity/checks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objectChan(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func listOpts(object string) minio.ListObjectsOptions {
	return minio.ListObjectsOptions{Prefix: object, Recursive: false, MaxKeys: 1}
}

func newTestService(client *mocks.Client) *Service {
	return NewService(client, "test-bucket", corpus.Config{Prefix: "data"}, zap.NewNop())
}

func TestCheckCorpusAllPresent(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	for _, object := range checks.RequiredCorpusObjects(corpus.Config{Prefix: "data"}) {
		client.On("ListObjects", mock.Anything, "test-bucket", listOpts(object)).
			Return(objectChan(object))
	}

	missing, err := newTestService(client).CheckCorpus(context.Background())
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestCheckCorpusReportsMissingObjects(t *testing.T) {
	cfg := corpus.Config{Prefix: "data"}
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	for _, object := range checks.RequiredCorpusObjects(cfg) {
		if object == cfg.RepairMapObject() {
			client.On("ListObjects", mock.Anything, "test-bucket", listOpts(object)).
				Return(objectChan())
			continue
		}
		client.On("ListObjects", mock.Anything, "test-bucket", listOpts(object)).
			Return(objectChan(object))
	}

	missing, err := newTestService(client).CheckCorpus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.RepairMapObject()}, missing)
}

func TestCheckCorpusBucketMissing(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)

	_, err := newTestService(client).CheckCorpus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestCheckCorpusBucketCheckFails(t *testing.T) {
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, errors.New("connection refused"))

	_, err := newTestService(client).CheckCorpus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check bucket existence")
}
