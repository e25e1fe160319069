package store

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, []byte("a"))
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set(ctx, []byte("a"), []byte("1")))
	v, err := m.Get(ctx, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	// returned slices must not alias stored state
	v[0] = 'x'
	v, _ = m.Get(ctx, []byte("a"))
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, m.Delete(ctx, []byte("a")))
	ok, err := Has(ctx, m, []byte("a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBranch_CommitAndDiscard(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, []byte("keep"), []byte("v0")))
	require.NoError(t, m.Set(ctx, []byte("gone"), []byte("v0")))

	b := NewBranch(m)
	require.NoError(t, b.Set(ctx, []byte("keep"), []byte("v1")))
	require.NoError(t, b.Delete(ctx, []byte("gone")))
	require.NoError(t, b.Set(ctx, []byte("new"), []byte("v2")))

	v, err := b.Get(ctx, []byte("keep"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)
	_, err = b.Get(ctx, []byte("gone"))
	assert.ErrorIs(t, err, ErrNotFound)

	// parent untouched until commit
	v, _ = m.Get(ctx, []byte("keep"))
	assert.Equal(t, []byte("v0"), v)

	require.NoError(t, b.Commit(ctx))
	v, _ = m.Get(ctx, []byte("keep"))
	assert.Equal(t, []byte("v1"), v)
	ok, _ := Has(ctx, m, []byte("gone"))
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())

	assert.ErrorIs(t, b.Commit(ctx), ErrBranchClosed)

	d := NewBranch(m)
	require.NoError(t, d.Set(ctx, []byte("keep"), []byte("v9")))
	d.Discard()
	v, _ = m.Get(ctx, []byte("keep"))
	assert.Equal(t, []byte("v1"), v)
	assert.ErrorIs(t, d.Set(ctx, []byte("x"), nil), ErrBranchClosed)
}

func TestBranch_Nested(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	outer := NewBranch(m)
	inner := NewBranch(outer)

	require.NoError(t, inner.Set(ctx, []byte("k"), []byte("v")))
	require.NoError(t, inner.Commit(ctx))

	v, err := outer.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
	assert.Equal(t, 0, m.Len())

	require.NoError(t, outer.Commit(ctx))
	assert.Equal(t, 1, m.Len())
}

func TestPrefixAndReadOnly(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	p := Prefix(m, []byte("wasm/c1/"))

	require.NoError(t, p.Set(ctx, []byte("config"), []byte("{}")))
	_, err := m.Get(ctx, []byte("wasm/c1/config"))
	require.NoError(t, err)

	ro := ReadOnly(p)
	_, err = ro.Get(ctx, []byte("config"))
	require.NoError(t, err)
	assert.ErrorIs(t, ro.Set(ctx, []byte("config"), nil), ErrReadOnly)
	assert.ErrorIs(t, ro.Delete(ctx, []byte("config")), ErrReadOnly)
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestItemAndMap(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	item := NewItem[sample]("config")
	_, ok, err := item.MayLoad(ctx, m)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = item.Load(ctx, m)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, item.Save(ctx, m, sample{Name: "a", Count: 1}))
	got, err := item.Load(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, sample{Name: "a", Count: 1}, got)

	counts := NewMap[sample]("counts")
	other := NewMap[sample]("count")
	require.NoError(t, counts.Save(ctx, m, []byte("x"), sample{Count: 2}))

	_, ok, err = other.MayLoad(ctx, m, []byte("sx"))
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, err = counts.MayLoad(ctx, m, []byte("x"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, got.Count)

	require.NoError(t, counts.Remove(ctx, m, []byte("x")))
	_, ok, _ = counts.MayLoad(ctx, m, []byte("x"))
	assert.False(t, ok)
}

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())
	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = client.FlushDB(ctx).Err()
	_ = client.Close()
}

func TestRedis_ApplyAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	r, err := NewRedis(client, "test:")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.Get(ctx, []byte("a"))
	assert.ErrorIs(t, err, ErrNotFound)

	b := NewBranch(r)
	require.NoError(t, b.Set(ctx, []byte("a"), []byte("1")))
	require.NoError(t, b.Set(ctx, []byte("b"), []byte("2")))
	require.NoError(t, b.Commit(ctx))

	v, err := r.Get(ctx, []byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), v)

	raw, err := client.Get(ctx, "test:a").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", raw)

	require.NoError(t, r.Apply(ctx, []Op{{Key: []byte("a"), Delete: true}}))
	_, err = r.Get(ctx, []byte("a"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewRedis_NilClient(t *testing.T) {
	_, err := NewRedis(nil, "")
	assert.Error(t, err)
}
