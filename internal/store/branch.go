package store

import (
	"context"
	"errors"
	"fmt"
)

var ErrBranchClosed = errors.New("branch already committed or discarded")

// Branch buffers writes over a parent store. Reads see the buffered writes
// first. Commit flushes the buffer in write order as one batch; Discard drops
// it. Either one closes the branch.
type Branch struct {
	parent KVStore
	writes map[string]Op
	order  []string
	closed bool
}

func NewBranch(parent KVStore) *Branch {
	return &Branch{parent: parent, writes: make(map[string]Op)}
}

func (b *Branch) Get(ctx context.Context, key []byte) ([]byte, error) {
	if b.closed {
		return nil, ErrBranchClosed
	}
	if op, ok := b.writes[string(key)]; ok {
		if op.Delete {
			return nil, ErrNotFound
		}
		return clone(op.Value), nil
	}
	return b.parent.Get(ctx, key)
}

func (b *Branch) Set(_ context.Context, key, value []byte) error {
	return b.put(Op{Key: clone(key), Value: clone(value)})
}

func (b *Branch) Delete(_ context.Context, key []byte) error {
	return b.put(Op{Key: clone(key), Delete: true})
}

// Apply buffers ops, which lets a Branch act as the parent of another one.
func (b *Branch) Apply(_ context.Context, ops []Op) error {
	for _, op := range ops {
		if err := b.put(Op{Key: clone(op.Key), Value: clone(op.Value), Delete: op.Delete}); err != nil {
			return err
		}
	}
	return nil
}

func (b *Branch) put(op Op) error {
	if b.closed {
		return ErrBranchClosed
	}
	k := string(op.Key)
	if _, seen := b.writes[k]; !seen {
		b.order = append(b.order, k)
	}
	b.writes[k] = op
	return nil
}

// Ops returns the pending writes in first-write order.
func (b *Branch) Ops() []Op {
	out := make([]Op, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, b.writes[k])
	}
	return out
}

func (b *Branch) Commit(ctx context.Context) error {
	if b.closed {
		return ErrBranchClosed
	}
	ops := b.Ops()
	b.closed = true

	if be, ok := b.parent.(Backend); ok {
		if err := be.Apply(ctx, ops); err != nil {
			return fmt.Errorf("commit branch: %w", err)
		}
		return nil
	}
	for _, op := range ops {
		var err error
		if op.Delete {
			err = b.parent.Delete(ctx, op.Key)
		} else {
			err = b.parent.Set(ctx, op.Key, op.Value)
		}
		if err != nil {
			return fmt.Errorf("commit branch: %w", err)
		}
	}
	return nil
}

func (b *Branch) Discard() {
	b.closed = true
	b.writes = nil
	b.order = nil
}
