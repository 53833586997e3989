package compare

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
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

type staticKeyer struct{}

func (staticKeyer) CollectionKey(name, ownerID string) string {
	return "test:" + name + ":" + ownerID
}

type fakeProducts struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProducts) add(name string) *models.Product {
	p := &models.Product{
		ID:     uuid.New(),
		Slug:   name,
		Name:   name,
		Price:  decimal.RequireFromString("5.00"),
		Active: true,
	}
	if f.products == nil {
		f.products = map[uuid.UUID]*models.Product{}
	}
	f.products[p.ID] = p
	return p
}

func newCompareService(t *testing.T, products *fakeProducts) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Store:    newMemoryStore(),
		Keys:     staticKeyer{},
		Products: products,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddAndList(t *testing.T) {
	products := &fakeProducts{}
	product := products.add("blender")
	svc := newCompareService(t, products)
	userID := uuid.New()

	result, err := svc.Add(context.Background(), userID, product.ID)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !result.Added || result.Duplicate {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Items) != 1 || result.Items[0].Name != "blender" {
		t.Fatalf("items = %+v", result.Items)
	}

	items, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %+v", items)
	}
}

func TestDuplicateAddIsNoOp(t *testing.T) {
	products := &fakeProducts{}
	product := products.add("kettle")
	svc := newCompareService(t, products)
	userID := uuid.New()

	if _, err := svc.Add(context.Background(), userID, product.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	result, err := svc.Add(context.Background(), userID, product.ID)
	if err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if result.Added || !result.Duplicate {
		t.Fatalf("result = %+v", result)
	}
	if len(result.Items) != 1 {
		t.Fatalf("duplicate add changed length: %+v", result.Items)
	}
}

func TestFifthDistinctAddConflicts(t *testing.T) {
	products := &fakeProducts{}
	svc := newCompareService(t, products)
	userID := uuid.New()

	for i := 0; i < MaxItems; i++ {
		product := products.add("item")
		if _, err := svc.Add(context.Background(), userID, product.ID); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}

	overflow := products.add("overflow")
	_, err := svc.Add(context.Background(), userID, overflow.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
	if typed.Message() != "compare list is limited to 4 products" {
		t.Fatalf("message = %q", typed.Message())
	}
}

func TestRemoveAndClear(t *testing.T) {
	products := &fakeProducts{}
	product := products.add("mixer")
	svc := newCompareService(t, products)
	userID := uuid.New()

	if _, err := svc.Add(context.Background(), userID, product.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Remove(context.Background(), userID, product.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	err := svc.Remove(context.Background(), userID, product.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}

	if _, err := svc.Add(context.Background(), userID, product.ID); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	items, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("items = %+v", items)
	}
}

func TestListSkipsVanishedProducts(t *testing.T) {
	products := &fakeProducts{}
	keep := products.add("keep")
	gone := products.add("gone")
	svc := newCompareService(t, products)
	userID := uuid.New()

	for _, p := range []*models.Product{keep, gone} {
		if _, err := svc.Add(context.Background(), userID, p.ID); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	delete(products.products, gone.ID)

	items, err := svc.List(context.Background(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].Name != "keep" {
		t.Fatalf("items = %+v", items)
	}
}
