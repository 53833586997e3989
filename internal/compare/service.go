package compare

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/collections"
	"github.com/ekomart/ekomart-backend/pkg/db/models"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
)

const (
	// MaxItems is the hard cap on products held for comparison.
	MaxItems = 4

	listName    = "compare"
	fullMessage = "compare list is limited to 4 products"
)

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type collectionKeyer interface {
	CollectionKey(name, ownerID string) string
}

// ProductSummary is one compared product as returned to clients.
type ProductSummary struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	SalePrice *string   `json:"sale_price,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
	Stock     int       `json:"stock"`
}

// AddResult reports what an add did; a duplicate is a no-op, not an error.
type AddResult struct {
	Added     bool             `json:"added"`
	Duplicate bool             `json:"duplicate"`
	Items     []ProductSummary `json:"items"`
}

// ServiceParams groups dependencies for the compare service.
type ServiceParams struct {
	Store    collections.Store
	Keys     collectionKeyer
	Products productFinder
}

// Service manages the per-user product comparison list.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) (*AddResult, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]ProductSummary, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	list     *collections.CappedList[uuid.UUID]
	products productFinder
}

// NewService builds a compare service with its Redis-backed list.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection store is required")
	}
	if params.Keys == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection keyer is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product finder is required")
	}
	list, err := collections.NewCappedList(params.Store, MaxItems,
		func(ownerID string) string { return params.Keys.CollectionKey(listName, ownerID) },
		func(id uuid.UUID) string { return id.String() },
	)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build compare list")
	}
	return &service{list: list, products: params.Products}, nil
}

func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) (*AddResult, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	ids, err := s.list.Add(ctx, userID.String(), productID)
	if err != nil {
		switch {
		case errors.Is(err, collections.ErrDuplicate):
			items, resolveErr := s.resolve(ctx, ids)
			if resolveErr != nil {
				return nil, resolveErr
			}
			return &AddResult{Duplicate: true, Items: items}, nil
		case errors.Is(err, collections.ErrFull):
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fullMessage)
		default:
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add compare item")
		}
	}

	items, err := s.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &AddResult{Added: true, Items: items}, nil
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	_, removed, err := s.list.Remove(ctx, userID.String(), productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove compare item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not in compare list")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ProductSummary, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	ids, err := s.list.Items(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load compare list")
	}
	return s.resolve(ctx, ids)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := s.list.Clear(ctx, userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear compare list")
	}
	return nil
}

// resolve maps stored ids to product summaries, skipping products that have
// since been removed or deactivated.
func (s *service) resolve(ctx context.Context, ids []uuid.UUID) ([]ProductSummary, error) {
	summaries := make([]ProductSummary, 0, len(ids))
	for _, id := range ids {
		product, err := s.products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve compare product")
		}
		if !product.Active {
			continue
		}
		summary := ProductSummary{
			ID:       product.ID,
			Slug:     product.Slug,
			Name:     product.Name,
			Price:    product.Price.StringFixed(2),
			ImageURL: product.ImageURL,
			Stock:    product.Stock,
		}
		if product.SalePrice != nil {
			sale := product.SalePrice.StringFixed(2)
			summary.SalePrice = &sale
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
