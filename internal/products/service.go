package products

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/internal/activity"
	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
	"github.com/ekomart/ekomart-backend/pkg/types"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateRequest describes a new catalog entry.
type CreateRequest struct {
	Slug        string  `json:"slug" validate:"required,min=2,max=120"`
	Name        string  `json:"name" validate:"required,min=2,max=200"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
	Price       string  `json:"price" validate:"required"`
	SalePrice   *string `json:"sale_price"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Active      *bool   `json:"active"`
}

// UpdateRequest carries partial product changes; nil fields stay untouched.
type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	CategoryID  *string `json:"category_id" validate:"omitempty,uuid"`
	Price       *string `json:"price"`
	SalePrice   *string `json:"sale_price"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
	Active      *bool   `json:"active"`
}

// ListResult is one page of products.
type ListResult struct {
	Items      []models.Product `json:"items"`
	Pagination pagination.Meta  `json:"pagination"`
}

// ServiceParams groups dependencies for the product service.
type ServiceParams struct {
	Repo     Repository
	Activity activity.Service
}

// Service exposes the catalog operations.
type Service interface {
	PublicList(ctx context.Context, params pagination.Params, query string, categoryID *uuid.UUID) (*ListResult, error)
	PublicDetail(ctx context.Context, slug string) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	AdminList(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error)
	Create(ctx context.Context, adminID uuid.UUID, req CreateRequest) (*models.Product, error)
	Update(ctx context.Context, adminID, productID uuid.UUID, req UpdateRequest) (*models.Product, error)
	Delete(ctx context.Context, adminID, productID uuid.UUID) error
}

type service struct {
	repo     Repository
	activity activity.Service
}

// NewService builds a product service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Activity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity service is required")
	}
	return &service{repo: params.Repo, activity: params.Activity}, nil
}

// PublicList only ever surfaces active products.
func (s *service) PublicList(ctx context.Context, params pagination.Params, query string, categoryID *uuid.UUID) (*ListResult, error) {
	return s.list(ctx, params, ListFilters{
		Query:      strings.TrimSpace(query),
		CategoryID: categoryID,
		ActiveOnly: true,
	})
}

func (s *service) AdminList(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	return s.list(ctx, params, filters)
}

func (s *service) list(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	products, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &ListResult{Items: products, Pagination: pagination.BuildMeta(params, total)}, nil
}

func (s *service) PublicDetail(ctx context.Context, slug string) (*models.Product, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug required")
	}
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
	}
	if !product.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Create(ctx context.Context, adminID uuid.UUID, req CreateRequest) (*models.Product, error) {
	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase letters, digits and dashes")
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	salePrice, err := parseSalePrice(req.SalePrice, price)
	if err != nil {
		return nil, err
	}
	categoryID, err := parseCategoryID(req.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Slug:        slug,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CategoryID:  categoryID,
		Price:       price,
		SalePrice:   salePrice,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Active:      true,
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.logActivity(ctx, adminID, enums.ActivityActionCreate, product.ID, "created product "+product.Name, nil, productSnapshot(product))
	return product, nil
}

func (s *service) Update(ctx context.Context, adminID, productID uuid.UUID, req UpdateRequest) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
	}
	before := productSnapshot(product)

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.CategoryID != nil {
		categoryID, err := parseCategoryID(req.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if req.SalePrice != nil {
		salePrice, err := parseSalePrice(req.SalePrice, product.Price)
		if err != nil {
			return nil, err
		}
		product.SalePrice = salePrice
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	s.logActivity(ctx, adminID, enums.ActivityActionUpdate, product.ID, "updated product "+product.Name, before, productSnapshot(product))
	return product, nil
}

func (s *service) Delete(ctx context.Context, adminID, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
	}

	deleted, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	s.logActivity(ctx, adminID, enums.ActivityActionDelete, productID, "deleted product "+product.Name, productSnapshot(product), nil)
	return nil
}

// logActivity records catalog mutations; an audit failure never fails the
// mutation itself.
func (s *service) logActivity(ctx context.Context, adminID uuid.UUID, action enums.ActivityAction, productID uuid.UUID, description string, before, after types.JSONMap) {
	_ = s.activity.Append(ctx, nil, activity.AppendInput{
		UserID:      adminID,
		Action:      action,
		Entity:      enums.ActivityEntityProduct,
		EntityID:    &productID,
		Description: description,
		Before:      before,
		After:       after,
	})
}

func productSnapshot(product *models.Product) types.JSONMap {
	snapshot := types.JSONMap{
		"slug":   product.Slug,
		"name":   product.Name,
		"price":  product.Price.StringFixed(2),
		"stock":  product.Stock,
		"active": product.Active,
	}
	if product.SalePrice != nil {
		snapshot["sale_price"] = product.SalePrice.StringFixed(2)
	}
	return snapshot
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number")
	}
	if price.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return price.Round(2), nil
}

func parseSalePrice(raw *string, price decimal.Decimal) (*decimal.Decimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	sale, err := parsePrice(*raw)
	if err != nil {
		return nil, err
	}
	if sale.GreaterThanOrEqual(price) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale price must be below the regular price")
	}
	return &sale, nil
}

func parseCategoryID(raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id must be a valid uuid")
	}
	return &id, nil
}
