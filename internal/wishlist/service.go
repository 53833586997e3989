package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

// MaxItems is the hard per-user wishlist cap.
const MaxItems = 100

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo     Repository
	Products productFinder
}

// ListResult is one page of wishlist entries.
type ListResult struct {
	Items      []Entry         `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// Service exposes business rules for wishlist management.
type Service interface {
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error)
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type service struct {
	repo     Repository
	products productFinder
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product finder is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

// Add inserts the product for the user. The conditional insert leaves zero
// rows affected for both a duplicate and a full list, so the duplicate check
// runs after the insert to tell the two conflicts apart.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
	}
	if !product.Active {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	inserted, err := s.repo.Add(ctx, userID, productID, MaxItems)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist item")
	}
	if inserted {
		return nil
	}

	exists, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist item")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeConflict, "already in wishlist")
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "wishlist is full")
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil || productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	removed, err := s.repo.Remove(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
	}
	return nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	entries, total, err := s.repo.List(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	if entries == nil {
		entries = []Entry{}
	}
	return &ListResult{
		Items:      entries,
		Pagination: pagination.BuildMeta(params, total),
	}, nil
}

func (s *service) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	exists, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist item")
	}
	return exists, nil
}
