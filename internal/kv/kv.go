// Package kv provides the named durable blobs the diary persists into.
package kv

import "errors"

// ErrNotFound is returned by Get when nothing was stored under the key
var ErrNotFound = errors.New("key not found")

// Blob stores whole values under fixed keys. Put must be durable when it
// returns; there are no partial writes.
type Blob interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}
