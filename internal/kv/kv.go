// Package kv is the small key-value capability behind the app's local
// storage slots (authoring draft, session identity). Implementations are
// injected so tests can substitute the in-memory one.
package kv

import "errors"

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
