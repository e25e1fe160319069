package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Item is a JSON singleton stored under a fixed key.
type Item[T any] struct {
	key string
}

func NewItem[T any](key string) Item[T] {
	return Item[T]{key: key}
}

func (i Item[T]) Load(ctx context.Context, s KVStore) (T, error) {
	var out T
	raw, err := s.Get(ctx, []byte(i.key))
	if err != nil {
		return out, fmt.Errorf("load %s: %w", i.key, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", i.key, err)
	}
	return out, nil
}

// MayLoad reports ok=false instead of ErrNotFound.
func (i Item[T]) MayLoad(ctx context.Context, s KVStore) (T, bool, error) {
	v, err := i.Load(ctx, s)
	if errors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	return v, err == nil, err
}

func (i Item[T]) Save(ctx context.Context, s KVStore, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", i.key, err)
	}
	return s.Set(ctx, []byte(i.key), raw)
}

// Map stores JSON values under namespace-prefixed keys. The namespace is
// length-prefixed so no two namespaces share a key.
type Map[T any] struct {
	namespace string
	prefix    []byte
}

func NewMap[T any](namespace string) Map[T] {
	p := make([]byte, 2, 2+len(namespace))
	binary.BigEndian.PutUint16(p, uint16(len(namespace)))
	return Map[T]{namespace: namespace, prefix: append(p, namespace...)}
}

func (m Map[T]) Key(k []byte) []byte {
	out := make([]byte, 0, len(m.prefix)+len(k))
	return append(append(out, m.prefix...), k...)
}

func (m Map[T]) Load(ctx context.Context, s KVStore, k []byte) (T, error) {
	var out T
	raw, err := s.Get(ctx, m.Key(k))
	if err != nil {
		return out, fmt.Errorf("load %s: %w", m.namespace, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", m.namespace, err)
	}
	return out, nil
}

func (m Map[T]) MayLoad(ctx context.Context, s KVStore, k []byte) (T, bool, error) {
	v, err := m.Load(ctx, s, k)
	if errors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	return v, err == nil, err
}

func (m Map[T]) Save(ctx context.Context, s KVStore, k []byte, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", m.namespace, err)
	}
	return s.Set(ctx, m.Key(k), raw)
}

func (m Map[T]) Remove(ctx context.Context, s KVStore, k []byte) error {
	return s.Delete(ctx, m.Key(k))
}
