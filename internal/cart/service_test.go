package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
)

type fakeCartRepo struct {
	cart     *models.Cart
	upserted []*models.CartItem
	updated  map[uuid.UUID]int
}

func (f *fakeCartRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeCartRepo) FindOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if f.cart == nil {
		f.cart = &models.Cart{ID: uuid.New(), UserID: userID}
	}
	return f.cart, nil
}

func (f *fakeCartRepo) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if f.cart == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cart, nil
}

func (f *fakeCartRepo) UpsertItem(ctx context.Context, item *models.CartItem) error {
	f.upserted = append(f.upserted, item)
	for i := range f.cart.Items {
		if f.cart.Items[i].ProductID == item.ProductID {
			f.cart.Items[i].Quantity += item.Quantity
			return nil
		}
	}
	f.cart.Items = append(f.cart.Items, *item)
	return nil
}

func (f *fakeCartRepo) UpdateItemQuantity(ctx context.Context, cartID, productID uuid.UUID, quantity int) (int64, error) {
	for i := range f.cart.Items {
		if f.cart.Items[i].ProductID == productID {
			f.cart.Items[i].Quantity = quantity
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeCartRepo) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (bool, error) {
	for i := range f.cart.Items {
		if f.cart.Items[i].ProductID == productID {
			f.cart.Items = append(f.cart.Items[:i], f.cart.Items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCartRepo) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	n := int64(len(f.cart.Items))
	f.cart.Items = nil
	return n, nil
}

type fakeProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func activeProduct(price, sale string) *models.Product {
	p := &models.Product{
		ID:     uuid.New(),
		Name:   "Organic Apples",
		Price:  decimal.RequireFromString(price),
		Active: true,
	}
	if sale != "" {
		s := decimal.RequireFromString(sale)
		p.SalePrice = &s
	}
	return p
}

func TestAddItemSnapshotsSalePrice(t *testing.T) {
	product := activeProduct("4.99", "3.49")
	repo := &fakeCartRepo{}
	svc, err := NewService(repo, &fakeProductFinder{products: map[uuid.UUID]*models.Product{product.ID: product}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("upserted = %d", len(repo.upserted))
	}
	if !repo.upserted[0].UnitPrice.Equal(decimal.RequireFromString("3.49")) {
		t.Fatalf("unit price = %s, want sale price", repo.upserted[0].UnitPrice)
	}
	if view.ItemCount != 2 {
		t.Fatalf("itemCount = %d, want 2", view.ItemCount)
	}
	if !view.Subtotal.Equal(decimal.RequireFromString("6.98")) {
		t.Fatalf("subtotal = %s, want 6.98", view.Subtotal)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, _ := NewService(&fakeCartRepo{}, &fakeProductFinder{})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: uuid.New(), Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestAddItemInactiveProductHidden(t *testing.T) {
	product := activeProduct("4.99", "")
	product.Active = false
	svc, _ := NewService(&fakeCartRepo{}, &fakeProductFinder{products: map[uuid.UUID]*models.Product{product.ID: product}})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID, Quantity: 1})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found (no existence leak)", err)
	}
}

func TestAddSameProductIncrementsQuantity(t *testing.T) {
	product := activeProduct("2.00", "")
	repo := &fakeCartRepo{}
	svc, _ := NewService(repo, &fakeProductFinder{products: map[uuid.UUID]*models.Product{product.ID: product}})
	userID := uuid.New()

	if _, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 1}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	view, err := svc.AddItem(context.Background(), userID, AddItemRequest{ProductID: product.ID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("lines = %d, want 1", len(view.Items))
	}
	if view.ItemCount != 4 {
		t.Fatalf("itemCount = %d, want 4", view.ItemCount)
	}
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	repo := &fakeCartRepo{cart: &models.Cart{ID: uuid.New()}}
	svc, _ := NewService(repo, &fakeProductFinder{})

	_, err := svc.UpdateQuantity(context.Background(), uuid.New(), uuid.New(), UpdateItemRequest{Quantity: 2})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestRemoveItem(t *testing.T) {
	productID := uuid.New()
	repo := &fakeCartRepo{cart: &models.Cart{
		ID:    uuid.New(),
		Items: []models.CartItem{{ProductID: productID, Quantity: 1, UnitPrice: decimal.New(1, 0)}},
	}}
	svc, _ := NewService(repo, &fakeProductFinder{})

	view, err := svc.RemoveItem(context.Background(), uuid.New(), productID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("items = %d, want 0", len(view.Items))
	}
}
