package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiyolabs/feedkit/core"
)

func TestMemoryStore_SetGet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k1", []byte("v1")))

	got, err := m.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()

	_, err := m.Get(context.Background(), "nope")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k1", []byte("v1"), 1))

	got, err := m.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	time.Sleep(1100 * time.Millisecond)

	_, err = m.Get(ctx, "k1")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestMemoryStore_Delete(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, m.Delete(ctx, "k1"))

	_, err := m.Get(ctx, "k1")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestMemoryStore_Expire(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k1", []byte("v1")))
	require.NoError(t, m.Expire(ctx, "k1", 50*time.Millisecond))

	time.Sleep(100 * time.Millisecond)

	_, err := m.Get(ctx, "k1")
	assert.True(t, core.IsStoreNotFound(err))

	// 不存在的 key 无法续期
	err = m.Expire(ctx, "missing", time.Second)
	assert.True(t, core.IsStoreNotFound(err))
}

func TestMemoryStore_BatchSetGet(t *testing.T) {
	m := NewMemoryStore()
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.BatchSet(ctx, map[string][]byte{
		"a": []byte("1"),
		"b": []byte("2"),
	}))

	got, err := m.BatchGet(ctx, []string{"a", "b", "missing"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, []byte("1"), got["a"])
	// 缺失的 key 静默跳过
	_, ok := got["missing"]
	assert.False(t, ok)
}
