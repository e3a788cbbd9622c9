package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"lootdex/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func jsonBody(t *testing.T, v any) io.ReadCloser {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return io.NopCloser(bytes.NewReader(data))
}

func newTestStore(client *mocks.Client) *Store {
	return NewStore(client, "test-bucket", Config{Prefix: "data"}, zap.NewNop())
}

func TestShardKeyOf(t *testing.T) {
	assert.Equal(t, "a", ShardKeyOf("Apple"))
	assert.Equal(t, "w", ShardKeyOf("WEAPONSWORD001"))
	assert.Equal(t, "9", ShardKeyOf("9mm"))
	assert.Equal(t, "misc", ShardKeyOf(""))
	assert.Equal(t, "misc", ShardKeyOf("  "))
	assert.Equal(t, "misc", ShardKeyOf("_internal"))
}

func TestManifestFetchedOnce(t *testing.T) {
	client := new(mocks.Client)
	store := newTestStore(client)

	client.On("GetObject", mock.Anything, "test-bucket", "data/items/manifest.json", mock.Anything).
		Return(jsonBody(t, Manifest{Files: map[string]string{"a": "items_a.json"}}), nil).Once()

	m1, err := store.Manifest(context.Background())
	require.NoError(t, err)
	m2, err := store.Manifest(context.Background())
	require.NoError(t, err)
	assert.Same(t, m1, m2)

	client.AssertNumberOfCalls(t, "GetObject", 1)
}

func TestManifestErrorIsTyped(t *testing.T) {
	client := new(mocks.Client)
	store := newTestStore(client)

	client.On("GetObject", mock.Anything, "test-bucket", "data/items/manifest.json", mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := store.Manifest(context.Background())
	var me *ManifestError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "data/items/manifest.json", me.Object)
}

func TestShardCachedAfterFirstLoad(t *testing.T) {
	client := new(mocks.Client)
	store := newTestStore(client)

	client.On("GetObject", mock.Anything, "test-bucket", "data/items/manifest.json", mock.Anything).
		Return(jsonBody(t, Manifest{Files: map[string]string{"w": "items_w.json"}}), nil).Once()
	client.On("GetObject", mock.Anything, "test-bucket", "data/items/items_w.json", mock.Anything).
		Return(jsonBody(t, []Item{{ID: "WEAPONSWORD001", Name: "Rusty Sword"}}), nil).Once()

	items, err := store.Shard(context.Background(), "w")
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Second call must be a pure cache hit.
	again, err := store.Shard(context.Background(), "w")
	require.NoError(t, err)
	assert.Equal(t, items, again)
	client.AssertNumberOfCalls(t, "GetObject", 2)
}

func TestShardMissingKeyIsEmptyNotError(t *testing.T) {
	client := new(mocks.Client)
	store := newTestStore(client)

	client.On("GetObject", mock.Anything, "test-bucket", "data/items/manifest.json", mock.Anything).
		Return(jsonBody(t, Manifest{Files: map[string]string{"a": "items_a.json"}}), nil).Once()

	items, err := store.Shard(context.Background(), "z")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestShardFetchFailureIsTyped(t *testing.T) {
	client := new(mocks.Client)
	store := newTestStore(client)

	client.On("GetObject", mock.Anything, "test-bucket", "data/items/manifest.json", mock.Anything).
		Return(jsonBody(t, Manifest{Files: map[string]string{"a": "items_a.json"}}), nil).Once()
	client.On("GetObject", mock.Anything, "test-bucket", "data/items/items_a.json", mock.Anything).
		Return(nil, errors.New("object not found"))

	_, err := store.Shard(context.Background(), "a")
	var se *ShardError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "a", se.Key)
}

func TestAllItemsConcatenatesInStableOrder(t *testing.T) {
	client := new(mocks.Client)
	store := newTestStore(client)

	client.On("GetObject", mock.Anything, "test-bucket", "data/items/manifest.json", mock.Anything).
		Return(jsonBody(t, Manifest{Files: map[string]string{"b": "items_b.json", "a": "items_a.json"}}), nil).Once()
	client.On("GetObject", mock.Anything, "test-bucket", "data/items/items_a.json", mock.Anything).
		Return(jsonBody(t, []Item{{ID: "AXE001"}}), nil).Once()
	client.On("GetObject", mock.Anything, "test-bucket", "data/items/items_b.json", mock.Anything).
		Return(jsonBody(t, []Item{{ID: "BOW001"}}), nil).Once()

	all, err := store.AllItems(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "AXE001", all[0].ID)
	assert.Equal(t, "BOW001", all[1].ID)

	// Cached concatenation: no further fetches.
	_, err = store.AllItems(context.Background())
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "GetObject", 3)
}

func TestBucketsForItemUsesItemShardKey(t *testing.T) {
	client := new(mocks.Client)
	store := newTestStore(client)

	client.On("GetObject", mock.Anything, "test-bucket", "data/loot_buckets_by_item/manifest.json", mock.Anything).
		Return(jsonBody(t, Manifest{Files: map[string]string{"f": "buckets_f.json"}}), nil).Once()
	odds := 0.2
	client.On("GetObject", mock.Anything, "test-bucket", "data/loot_buckets_by_item/buckets_f.json", mock.Anything).
		Return(jsonBody(t, []BucketRow{{BucketID: "B_FISH", ItemID: "FISH003", Odds: &odds}}), nil).Once()

	rows, err := store.BucketsForItem(context.Background(), "FISH003")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B_FISH", rows[0].BucketID)

	// Same shard, different item: cache hit.
	_, err = store.BucketsForItem(context.Background(), "FISH999")
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "GetObject", 2)
}

func TestFindItemAndDisplayName(t *testing.T) {
	client := new(mocks.Client)
	store := newTestStore(client)

	client.On("GetObject", mock.Anything, "test-bucket", "data/items/manifest.json", mock.Anything).
		Return(jsonBody(t, Manifest{Files: map[string]string{"f": "items_f.json"}}), nil).Once()
	client.On("GetObject", mock.Anything, "test-bucket", "data/items/items_f.json", mock.Anything).
		Return(jsonBody(t, []Item{{ID: "FISH003", Name: "Mudfish"}}), nil).Once()

	item, err := store.FindItem(context.Background(), "fish003")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Mudfish", item.Name)

	name, err := store.DisplayName(context.Background(), "FISH003")
	require.NoError(t, err)
	assert.Equal(t, "Mudfish", name)

	// Unknown id falls back to the raw id.
	name, err = store.DisplayName(context.Background(), "FISH999")
	require.NoError(t, err)
	assert.Equal(t, "FISH999", name)
}

func TestFlatTablesLoadedOnce(t *testing.T) {
	client := new(mocks.Client)
	store := newTestStore(client)

	client.On("GetObject", mock.Anything, "test-bucket", "data/loot_tables_flat.json", mock.Anything).
		Return(jsonBody(t, []LootTableEntry{{LootTableID: "T_START", RefType: RefItem, Ref: "WEAPONSWORD001"}}), nil).Once()

	entries, err := store.FlatTables(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = store.FlatTables(context.Background())
	require.NoError(t, err)
	client.AssertNumberOfCalls(t, "GetObject", 1)
}
