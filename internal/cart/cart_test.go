package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeadmin/internal/kvstore"
	"storeadmin/internal/localstore"
	"storeadmin/internal/model"
)

type fakeRemote struct {
	err   error
	calls int
	last  []model.CartItem
}

func (f *fakeRemote) CreateCart(ctx context.Context, userID int64, items []model.CartItem) (model.Cart, error) {
	f.calls++
	f.last = items
	if f.err != nil {
		return model.Cart{}, f.err
	}
	return model.Cart{ID: 11, UserID: userID, Products: items}, nil
}

func newTestStore(t *testing.T) (*Store, *localstore.Adapter, *fakeRemote) {
	t.Helper()
	adapter := localstore.NewAdapter(kvstore.NewMemoryStore())
	remote := &fakeRemote{}
	return NewStore(remote, adapter), adapter, remote
}

func TestAddAccumulatesQuantity(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	store.Add(ctx, 5)
	store.Add(ctx, 5)
	store.Add(ctx, 9)

	items := store.Items()
	require.Len(t, items, 2)
	assert.Equal(t, model.CartItem{ProductID: 5, Quantity: 2}, items[0])
	assert.Equal(t, model.CartItem{ProductID: 9, Quantity: 1}, items[1])
	assert.Equal(t, 3, store.TotalItems())
}

func TestDecreaseFloorsAtOne(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	store.Add(ctx, 5)
	store.Add(ctx, 5)

	store.Decrease(ctx, 5)
	require.Equal(t, 1, store.Items()[0].Quantity)

	// At quantity 1 decrease is a no-op; the line stays.
	store.Decrease(ctx, 5)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRemoveDropsLineRegardlessOfQuantity(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	store.Add(ctx, 5)
	store.Increase(ctx, 5)
	store.Increase(ctx, 5)
	require.Equal(t, 3, store.TotalItems())

	store.Remove(ctx, 5)
	assert.Empty(t, store.Items())

	// Re-adding starts fresh at quantity 1, not the old count.
	store.Add(ctx, 5)
	assert.Equal(t, 1, store.Items()[0].Quantity)
}

func TestIncreaseUnknownIDIsIgnored(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore(t)

	store.Increase(ctx, 404)
	store.Decrease(ctx, 404)
	store.Remove(ctx, 404)
	assert.Empty(t, store.Items())
}

func TestCartSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	store, adapter, remote := newTestStore(t)

	store.Add(ctx, 5)
	store.Add(ctx, 5)
	store.Add(ctx, 9)

	reloaded := NewStore(remote, adapter)
	assert.Equal(t, store.Items(), reloaded.Items())
	assert.Equal(t, 3, reloaded.TotalItems())
}

func TestCorruptPersistedCartStartsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := kvstore.NewMemoryStore()
	require.NoError(t, backend.Set(ctx, localstore.KeyCartItems, `{broken`))

	store := NewStore(&fakeRemote{}, localstore.NewAdapter(backend))
	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.TotalItems())
}

func TestClearPersistsEmptyList(t *testing.T) {
	ctx := context.Background()
	store, adapter, _ := newTestStore(t)

	store.Add(ctx, 5)
	store.Clear(ctx)
	assert.Empty(t, store.Items())

	// The empty state is written through, not left as the stale list.
	var persisted []model.CartItem
	require.True(t, adapter.Load(ctx, localstore.KeyCartItems, &persisted))
	assert.Empty(t, persisted)
}

func TestSyncAddRecordsRemoteFirst(t *testing.T) {
	ctx := context.Background()
	store, _, remote := newTestStore(t)

	require.NoError(t, store.SyncAdd(ctx, 3, 5))
	assert.Equal(t, 1, remote.calls)
	assert.Equal(t, []model.CartItem{{ProductID: 5, Quantity: 1}}, remote.last)
	assert.Equal(t, 1, store.TotalItems())
}

func TestSyncAddFailureLeavesCartUntouched(t *testing.T) {
	ctx := context.Background()
	store, _, remote := newTestStore(t)
	store.Add(ctx, 9)

	remote.err = errors.New("gateway unavailable")
	require.Error(t, store.SyncAdd(ctx, 3, 5))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(9), items[0].ProductID)
}
