// Package store holds the key-value primitives contract state lives on.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrReadOnly = errors.New("store is read-only")
)

// KVStore is the view a contract handler sees. Get returns ErrNotFound for
// missing keys.
type KVStore interface {
	Get(ctx context.Context, key []byte) ([]byte, error)
	Set(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
}

// Op is a single buffered write. A nil Value with Delete unset is an empty
// value, not a delete.
type Op struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Backend is a KVStore that can apply a batch of writes atomically.
type Backend interface {
	KVStore
	Apply(ctx context.Context, ops []Op) error
}

// Has reports whether key is present.
func Has(ctx context.Context, s KVStore, key []byte) (bool, error) {
	_, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type prefixed struct {
	parent KVStore
	prefix []byte
}

// Prefix scopes every key of parent under prefix.
func Prefix(parent KVStore, prefix []byte) KVStore {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &prefixed{parent: parent, prefix: p}
}

func (p *prefixed) key(k []byte) []byte {
	out := make([]byte, 0, len(p.prefix)+len(k))
	return append(append(out, p.prefix...), k...)
}

func (p *prefixed) Get(ctx context.Context, key []byte) ([]byte, error) {
	return p.parent.Get(ctx, p.key(key))
}

func (p *prefixed) Set(ctx context.Context, key, value []byte) error {
	return p.parent.Set(ctx, p.key(key), value)
}

func (p *prefixed) Delete(ctx context.Context, key []byte) error {
	return p.parent.Delete(ctx, p.key(key))
}

type readOnly struct {
	parent KVStore
}

// ReadOnly wraps parent so writes fail with ErrReadOnly.
func ReadOnly(parent KVStore) KVStore {
	return readOnly{parent: parent}
}

func (r readOnly) Get(ctx context.Context, key []byte) ([]byte, error) {
	return r.parent.Get(ctx, key)
}

func (readOnly) Set(context.Context, []byte, []byte) error { return ErrReadOnly }

func (readOnly) Delete(context.Context, []byte) error { return ErrReadOnly }
