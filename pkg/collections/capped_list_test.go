package collections

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type memoryStore struct {
	values map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}}
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func newTestList(t *testing.T, store Store, capacity int) *CappedList[string] {
	t.Helper()
	list, err := NewCappedList(store, capacity,
		func(owner string) string { return "test:" + owner },
		func(item string) string { return item },
	)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	return list
}

func TestCappedListAddAndLoad(t *testing.T) {
	list := newTestList(t, newMemoryStore(), 3)
	ctx := context.Background()

	items, err := list.Add(ctx, "owner", "a")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(items) != 1 || items[0] != "a" {
		t.Fatalf("items = %v", items)
	}

	items, err = list.Items(ctx, "owner")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("persisted items = %v", items)
	}
}

func TestCappedListMissingKeyIsEmpty(t *testing.T) {
	list := newTestList(t, newMemoryStore(), 3)

	items, err := list.Items(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %v", items)
	}
}

func TestCappedListDuplicate(t *testing.T) {
	list := newTestList(t, newMemoryStore(), 3)
	ctx := context.Background()

	if _, err := list.Add(ctx, "owner", "a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	items, err := list.Add(ctx, "owner", "a")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
	if len(items) != 1 {
		t.Fatalf("duplicate add changed length: %v", items)
	}
}

func TestCappedListFull(t *testing.T) {
	list := newTestList(t, newMemoryStore(), 2)
	ctx := context.Background()

	for _, item := range []string{"a", "b"} {
		if _, err := list.Add(ctx, "owner", item); err != nil {
			t.Fatalf("add %q: %v", item, err)
		}
	}
	if _, err := list.Add(ctx, "owner", "c"); !errors.Is(err, ErrFull) {
		t.Fatalf("err = %v, want ErrFull", err)
	}
}

func TestCappedListRemove(t *testing.T) {
	store := newMemoryStore()
	list := newTestList(t, store, 3)
	ctx := context.Background()

	for _, item := range []string{"a", "b"} {
		if _, err := list.Add(ctx, "owner", item); err != nil {
			t.Fatalf("add %q: %v", item, err)
		}
	}

	items, removed, err := list.Remove(ctx, "owner", "a")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !removed || len(items) != 1 || items[0] != "b" {
		t.Fatalf("removed=%v items=%v", removed, items)
	}

	_, removed, err = list.Remove(ctx, "owner", "zz")
	if err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if removed {
		t.Fatal("missing item reported as removed")
	}

	// Removing the last item drops the key entirely.
	if _, _, err := list.Remove(ctx, "owner", "b"); err != nil {
		t.Fatalf("remove last: %v", err)
	}
	if _, ok := store.values["test:owner"]; ok {
		t.Fatal("empty list should delete the key")
	}
}

func TestCappedListClear(t *testing.T) {
	list := newTestList(t, newMemoryStore(), 3)
	ctx := context.Background()

	if _, err := list.Add(ctx, "owner", "a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := list.Clear(ctx, "owner"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, err := list.Items(ctx, "owner")
	if err != nil {
		t.Fatalf("items: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %v", items)
	}
}
