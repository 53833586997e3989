package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
)

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Variant   *string   `json:"variant,omitempty"`
	Quantity  int       `json:"quantity" validate:"required,min=1,max=999"`
}

// UpdateItemRequest changes the quantity of an existing cart line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=999"`
}

// CartView is the transport shape for the cart with computed totals.
type CartView struct {
	ID        uuid.UUID         `json:"id"`
	Items     []models.CartItem `json:"items"`
	ItemCount int               `json:"itemCount"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service manages the per-user server-side cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*CartView, error)
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartView, error)
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartView, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	products productFinder
}

// NewService wires the cart dependencies.
func NewService(repo Repository, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder is required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	cart, err := s.repo.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildView(cart), nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	cart, err := s.repo.FindOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	item := &models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Variant:   req.Variant,
		Quantity:  req.Quantity,
		UnitPrice: product.EffectivePrice(),
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}

	return s.reload(ctx, userID)
}

func (s *service) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, req UpdateItemRequest) (*CartView, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	affected, err := s.repo.UpdateItemQuantity(ctx, cart.ID, productID, req.Quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.reload(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartView, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.RemoveItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	return s.reload(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) requireCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return buildView(cart), nil
}

func buildView(cart *models.Cart) *CartView {
	view := &CartView{
		ID:       cart.ID,
		Items:    cart.Items,
		Subtotal: decimal.Zero,
	}
	if view.Items == nil {
		view.Items = []models.CartItem{}
	}
	for _, item := range cart.Items {
		view.ItemCount += item.Quantity
		view.Subtotal = view.Subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return view
}
