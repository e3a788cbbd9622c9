// Package integrity verifies that the published dump corpus is complete:
// every object the resolver and search depend on must exist in the bucket.
// It reports missing objects; it never repairs the corpus, which is
// read-only and refreshed only by publishing a new dump.
package integrity
