// Package storage provides an abstraction layer for the object store that
// holds the game-data dump.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the corpus needs: fetching dump objects, listing them for
// integrity checks, and uploading a freshly exported dump. This abstraction
// supports both AWS S3 and self-hosted MinIO instances.
//
// The Client interface makes storage interactions mockable for unit testing
// (see core/storage/mocks).
package storage
