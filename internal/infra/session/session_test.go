package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sess := New()
	sess.SetActiveStoreID(12)
	require.True(t, sess.Changed())
	require.NoError(t, store.Save(ctx, sess.ID(), sess.Data(), time.Hour))

	data, err := store.Load(ctx, sess.ID())
	require.NoError(t, err)

	loaded := FromData(sess.ID(), data)
	id, ok := loaded.ActiveStoreID()
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)
	assert.False(t, loaded.Changed())

	require.NoError(t, store.Delete(ctx, sess.ID()))
	data, err = store.Load(ctx, sess.ID())
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore().(*memoryStore)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "abc", map[string]any{"k": "v"}, time.Minute))

	now = now.Add(2 * time.Minute)
	data, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestSession_ActiveStoreID(t *testing.T) {
	sess := FromData("id", map[string]any{"active_store_id": "not-a-number"})
	_, ok := sess.ActiveStoreID()
	assert.False(t, ok)

	sess = FromData("id", map[string]any{"active_store_id": float64(7)})
	id, ok := sess.ActiveStoreID()
	assert.True(t, ok)
	assert.Equal(t, uint(7), id)

	sess.SetActiveStoreID(7)
	assert.False(t, sess.Changed())

	sess.ClearActiveStoreID()
	assert.True(t, sess.Changed())
	_, ok = sess.ActiveStoreID()
	assert.False(t, ok)

	sess = FromData("id", map[string]any{"active_store_id": float64(-1)})
	_, ok = sess.ActiveStoreID()
	assert.False(t, ok)
}
