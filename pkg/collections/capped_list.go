package collections

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ekomart/ekomart-backend/pkg/redis"
)

var (
	// ErrDuplicate reports an add of an item the list already holds.
	ErrDuplicate = errors.New("collections: duplicate item")
	// ErrFull reports an add that would push the list past its capacity.
	ErrFull = errors.New("collections: list is full")
)

// Store is the key-value surface a capped list persists through.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CappedList is a per-owner ordered list with a fixed capacity, stored as a
// JSON payload under one key per owner. Items keep insertion order and are
// deduplicated by their identity string.
type CappedList[T any] struct {
	store    Store
	capacity int
	key      func(ownerID string) string
	identity func(item T) string
	ttl      time.Duration
}

// NewCappedList builds a capped list. The key func maps an owner to its
// storage key and identity maps an item to its dedupe key.
func NewCappedList[T any](store Store, capacity int, key func(ownerID string) string, identity func(item T) string) (*CappedList[T], error) {
	if store == nil {
		return nil, errors.New("collections: store is required")
	}
	if capacity < 1 {
		return nil, errors.New("collections: capacity must be positive")
	}
	if key == nil || identity == nil {
		return nil, errors.New("collections: key and identity funcs are required")
	}
	return &CappedList[T]{
		store:    store,
		capacity: capacity,
		key:      key,
		identity: identity,
	}, nil
}

// WithTTL sets an expiry applied on every write.
func (l *CappedList[T]) WithTTL(ttl time.Duration) *CappedList[T] {
	l.ttl = ttl
	return l
}

// Capacity returns the configured maximum length.
func (l *CappedList[T]) Capacity() int {
	return l.capacity
}

// Items loads the owner's list. A missing key is an empty list.
func (l *CappedList[T]) Items(ctx context.Context, ownerID string) ([]T, error) {
	raw, err := l.store.Get(ctx, l.key(ownerID))
	if err != nil {
		if redis.IsNil(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("collections: load list: %w", err)
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("collections: decode list: %w", err)
	}
	return items, nil
}

// Add appends the item. Returns ErrDuplicate when the identity is already
// present and ErrFull when the list sits at capacity.
func (l *CappedList[T]) Add(ctx context.Context, ownerID string, item T) ([]T, error) {
	items, err := l.Items(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	id := l.identity(item)
	for _, existing := range items {
		if l.identity(existing) == id {
			return items, ErrDuplicate
		}
	}
	if len(items) >= l.capacity {
		return items, ErrFull
	}
	items = append(items, item)
	if err := l.save(ctx, ownerID, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove drops the item with the same identity, reporting whether it was present.
func (l *CappedList[T]) Remove(ctx context.Context, ownerID string, item T) ([]T, bool, error) {
	items, err := l.Items(ctx, ownerID)
	if err != nil {
		return nil, false, err
	}
	id := l.identity(item)
	kept := items[:0]
	removed := false
	for _, existing := range items {
		if l.identity(existing) == id {
			removed = true
			continue
		}
		kept = append(kept, existing)
	}
	if !removed {
		return items, false, nil
	}
	if len(kept) == 0 {
		if err := l.Clear(ctx, ownerID); err != nil {
			return nil, false, err
		}
		return []T{}, true, nil
	}
	if err := l.save(ctx, ownerID, kept); err != nil {
		return nil, false, err
	}
	return kept, true, nil
}

// Clear deletes the owner's list.
func (l *CappedList[T]) Clear(ctx context.Context, ownerID string) error {
	if err := l.store.Del(ctx, l.key(ownerID)); err != nil {
		return fmt.Errorf("collections: clear list: %w", err)
	}
	return nil
}

func (l *CappedList[T]) save(ctx context.Context, ownerID string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("collections: encode list: %w", err)
	}
	if err := l.store.Set(ctx, l.key(ownerID), string(raw), l.ttl); err != nil {
		return fmt.Errorf("collections: persist list: %w", err)
	}
	return nil
}
