package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/SankalpJangid/jewellary-ecommerce/domain"
	"github.com/SankalpJangid/jewellary-ecommerce/internal/cache"
)

// Store holds each user's cart in memory. Mutations are atomic under the
// store lock; derived values are computed on read, never stored. A cart is
// owned by the store until checkout succeeds, at which point Clear removes
// it for good.
//
// An optional cache mirrors carts to Redis so a cart can outlive a process
// restart. The mirror is best effort: cache errors are logged and never fail
// a mutation. Cache writes for a user are serialized and snapshot the cart
// while holding that user's mirror lock, so the entry always settles on the
// latest state.
type Store struct {
	mu    sync.RWMutex
	carts map[int64][]domain.LineItem
	cache cache.CartCache

	mirrorMu sync.Mutex
	mirrors  map[int64]*sync.Mutex
}

// NewStore creates an empty cart store. cache may be nil to disable the
// session mirror.
func NewStore(cache cache.CartCache) *Store {
	return &Store{
		carts:   make(map[int64][]domain.LineItem),
		cache:   cache,
		mirrors: make(map[int64]*sync.Mutex),
	}
}

// AddItem merges the product into the user's cart: an existing line item
// gains quantity 1, otherwise a new line item with quantity 1 is appended.
func (s *Store) AddItem(userID int64, product domain.LineItem) {
	s.mu.Lock()
	items := s.carts[userID]
	merged := false
	for i := range items {
		if items[i].ProductID == product.ProductID {
			items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		product.Quantity = 1
		items = append(items, product)
	}
	s.carts[userID] = items
	s.mu.Unlock()

	s.mirror(userID)
}

// RemoveItem deletes the line item with the given product id. Absent ids
// are a no-op, not an error.
func (s *Store) RemoveItem(userID, productID int64) {
	s.mu.Lock()
	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			s.carts[userID] = append(items[:i], items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.mirror(userID)
}

// SetQuantity replaces the stored quantity for the product. A quantity of
// zero or less removes the line item. Absent ids are a no-op.
func (s *Store) SetQuantity(userID, productID int64, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(userID, productID)
		return
	}

	s.mu.Lock()
	items := s.carts[userID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()

	s.mirror(userID)
}

// Clear empties the user's cart unconditionally. The cache entry is removed
// before returning so a read racing the clear cannot restore the old cart.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	delete(s.carts, userID)
	s.mu.Unlock()

	if s.cache == nil {
		return
	}

	lock := s.mirrorLock(userID)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cart cache delete error: %v", err)
	}
}

// Items returns a copy of the user's line items.
func (s *Store) Items(userID int64) []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.carts[userID]
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	return out
}

// Cart returns the user's cart with derived totals.
func (s *Store) Cart(userID int64) domain.Cart {
	items := s.Items(userID)

	cart := domain.Cart{Items: items}
	for _, item := range items {
		cart.ItemCount += item.Quantity
		cart.Subtotal += item.Subtotal()
	}
	return cart
}

// Restore loads the user's cart from the session cache if nothing is held
// in memory yet. Called lazily by the HTTP layer; a cache miss or error
// just leaves the cart empty.
func (s *Store) Restore(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}

	s.mu.RLock()
	_, loaded := s.carts[userID]
	s.mu.RUnlock()
	if loaded {
		return
	}

	// Serialized with Clear and mirror writes so a restore racing a clear
	// cannot bring the old cart back.
	lock := s.mirrorLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cached, err := s.cache.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("cart cache get error: %v", err)
		}
		return
	}

	s.mu.Lock()
	if _, exists := s.carts[userID]; !exists && len(cached.Items) > 0 {
		s.carts[userID] = cached.Items
	}
	s.mu.Unlock()
}

// mirror writes the current cart to the session cache in the background.
// The snapshot is taken under the user's mirror lock, so however writes are
// scheduled the last one to run carries the newest state.
func (s *Store) mirror(userID int64) {
	if s.cache == nil {
		return
	}
	go func() {
		lock := s.mirrorLock(userID)
		lock.Lock()
		defer lock.Unlock()

		cart := s.Cart(userID)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.cache.Set(ctx, userID, &cart); err != nil {
			log.Printf("cart cache set error: %v", err)
		}
	}()
}

func (s *Store) mirrorLock(userID int64) *sync.Mutex {
	s.mirrorMu.Lock()
	defer s.mirrorMu.Unlock()
	lock, ok := s.mirrors[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.mirrors[userID] = lock
	}
	return lock
}
