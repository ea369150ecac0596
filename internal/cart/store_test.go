package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/cache"
)

const testUser int64 = 7

func ring() domain.LineItem {
	return domain.LineItem{ProductID: 1, Title: "Gold Ring", UnitPrice: 500}
}

func pendant() domain.LineItem {
	return domain.LineItem{ProductID: 2, Title: "Silver Pendant", UnitPrice: 1200}
}

func TestAddItem_MergesOnRepeatedAdd(t *testing.T) {
	store := NewStore(nil)

	store.AddItem(testUser, ring())
	store.AddItem(testUser, ring())
	store.AddItem(testUser, pendant())
	store.AddItem(testUser, ring())

	items := store.Items(testUser)
	require.Len(t, items, 2)

	byID := map[int64]domain.LineItem{}
	for _, item := range items {
		byID[item.ProductID] = item
	}
	assert.Equal(t, 3, byID[1].Quantity)
	assert.Equal(t, 1, byID[2].Quantity)
}

func TestSetQuantity_ReplacesStoredQuantity(t *testing.T) {
	store := NewStore(nil)
	store.AddItem(testUser, ring())

	store.SetQuantity(testUser, 1, 5)

	items := store.Items(testUser)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
}

func TestSetQuantity_ZeroEquivalentToRemove(t *testing.T) {
	removed := NewStore(nil)
	removed.AddItem(testUser, ring())
	removed.AddItem(testUser, pendant())
	removed.RemoveItem(testUser, 1)

	zeroed := NewStore(nil)
	zeroed.AddItem(testUser, ring())
	zeroed.AddItem(testUser, pendant())
	zeroed.SetQuantity(testUser, 1, 0)

	assert.Equal(t, removed.Items(testUser), zeroed.Items(testUser))

	negative := NewStore(nil)
	negative.AddItem(testUser, ring())
	negative.AddItem(testUser, pendant())
	negative.SetQuantity(testUser, 1, -3)

	assert.Equal(t, removed.Items(testUser), negative.Items(testUser))
}

func TestSetQuantity_AbsentProductIsNoOp(t *testing.T) {
	store := NewStore(nil)
	store.AddItem(testUser, ring())

	store.SetQuantity(testUser, 99, 4)

	items := store.Items(testUser)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ProductID)
}

func TestRemoveItem_AbsentProductIsNoOp(t *testing.T) {
	store := NewStore(nil)
	store.AddItem(testUser, ring())

	store.RemoveItem(testUser, 99)

	assert.Len(t, store.Items(testUser), 1)
}

func TestCart_DerivedTotals(t *testing.T) {
	store := NewStore(nil)
	store.AddItem(testUser, ring())
	store.AddItem(testUser, ring())
	store.AddItem(testUser, pendant())

	cart := store.Cart(testUser)

	assert.Equal(t, 3, cart.ItemCount)
	assert.InDelta(t, 2*500+1200, cart.Subtotal, 1e-9)
}

func TestClear_EmptiesCart(t *testing.T) {
	store := NewStore(nil)
	store.AddItem(testUser, ring())
	store.AddItem(testUser, pendant())

	store.Clear(testUser)

	cart := store.Cart(testUser)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.ItemCount)
	assert.Zero(t, cart.Subtotal)
}

// fakeCache is an in-memory CartCache with an optional hook before Delete,
// used to interleave cache operations with store calls.
type fakeCache struct {
	mu       sync.Mutex
	entries  map[int64]domain.Cart
	onDelete func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[int64]domain.Cart)}
}

func (f *fakeCache) Get(ctx context.Context, userID int64) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[userID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &entry, nil
}

func (f *fakeCache) Set(ctx context.Context, userID int64, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[userID] = *cart
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, userID int64) error {
	if f.onDelete != nil {
		f.onDelete()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, userID)
	return nil
}

func TestClear_RemovesCacheEntryBeforeReturning(t *testing.T) {
	fake := newFakeCache()
	store := NewStore(fake)
	store.AddItem(testUser, ring())

	assert.Eventually(t, func() bool {
		cached, err := fake.Get(context.Background(), testUser)
		return err == nil && len(cached.Items) == 1
	}, time.Second, time.Millisecond)

	store.Clear(testUser)

	_, err := fake.Get(context.Background(), testUser)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestRestore_AfterClearDoesNotResurrectCart(t *testing.T) {
	fake := newFakeCache()
	store := NewStore(fake)
	store.AddItem(testUser, ring())
	store.AddItem(testUser, ring())

	// A read arriving while the clear is underway must not bring the old
	// cart back once the clear returns.
	var wg sync.WaitGroup
	fake.onDelete = func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Restore(context.Background(), testUser)
		}()
	}
	store.Clear(testUser)
	wg.Wait()

	store.Restore(context.Background(), testUser)
	assert.Empty(t, store.Items(testUser))
}

func TestMirror_SettlesOnLatestState(t *testing.T) {
	fake := newFakeCache()
	store := NewStore(fake)

	store.AddItem(testUser, ring())
	store.AddItem(testUser, pendant())
	store.SetQuantity(testUser, 1, 5)
	store.RemoveItem(testUser, 2)

	want := store.Cart(testUser)
	assert.Eventually(t, func() bool {
		cached, err := fake.Get(context.Background(), testUser)
		return err == nil && assert.ObjectsAreEqual(want, *cached)
	}, time.Second, time.Millisecond)
}

func TestItems_ReturnsCopy(t *testing.T) {
	store := NewStore(nil)
	store.AddItem(testUser, ring())

	items := store.Items(testUser)
	items[0].Quantity = 42

	assert.Equal(t, 1, store.Items(testUser)[0].Quantity)
}

func TestStore_IsolatesUsers(t *testing.T) {
	store := NewStore(nil)
	store.AddItem(testUser, ring())
	store.AddItem(8, pendant())

	assert.Len(t, store.Items(testUser), 1)
	assert.Len(t, store.Items(8), 1)
	assert.Equal(t, int64(1), store.Items(testUser)[0].ProductID)
	assert.Equal(t, int64(2), store.Items(8)[0].ProductID)
}
