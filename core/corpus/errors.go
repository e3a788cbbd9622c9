package corpus

import "fmt"

// ManifestError reports an unreachable or undecodable manifest. It is fatal
// for the session: without a manifest no shard can be addressed, so callers
// surface it as a hard failure rather than degrading.
type ManifestError struct {
	Object string
	Err    error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("corpus: manifest %s unavailable: %v", e.Object, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// ShardError reports a single unreachable shard. It is caught at the
// search/resolve boundary and reported inline; other shards stay usable.
// A shard key absent from the manifest is not an error at all — that is
// simply an empty shard.
type ShardError struct {
	Key    string
	Object string
	Err    error
}

func (e *ShardError) Error() string {
	return fmt.Sprintf("corpus: shard %q (%s) unavailable: %v", e.Key, e.Object, e.Err)
}

func (e *ShardError) Unwrap() error {
	return e.Err
}
