package categories

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/internal/activity"
	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/types"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreateRequest describes a new category.
type CreateRequest struct {
	Slug      string `json:"slug" validate:"required,min=2,max=120"`
	Name      string `json:"name" validate:"required,min=2,max=120"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
	Active    *bool  `json:"active"`
}

// UpdateRequest carries partial category changes; nil fields stay untouched.
type UpdateRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=2,max=120"`
	SortOrder *int    `json:"sort_order" validate:"omitempty,gte=0"`
	Active    *bool   `json:"active"`
}

// ServiceParams groups dependencies for the category service.
type ServiceParams struct {
	Repo     Repository
	Activity activity.Service
}

// Service exposes category management.
type Service interface {
	PublicList(ctx context.Context) ([]models.Category, error)
	AdminList(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, adminID uuid.UUID, req CreateRequest) (*models.Category, error)
	Update(ctx context.Context, adminID, categoryID uuid.UUID, req UpdateRequest) (*models.Category, error)
	Delete(ctx context.Context, adminID, categoryID uuid.UUID) error
}

type service struct {
	repo     Repository
	activity activity.Service
}

// NewService builds a category service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category repo is required")
	}
	if params.Activity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity service is required")
	}
	return &service{repo: params.Repo, activity: params.Activity}, nil
}

func (s *service) PublicList(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) AdminList(ctx context.Context) ([]models.Category, error) {
	categories, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) Create(ctx context.Context, adminID uuid.UUID, req CreateRequest) (*models.Category, error) {
	slug := strings.TrimSpace(strings.ToLower(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase letters, digits and dashes")
	}

	category := &models.Category{
		Slug:      slug,
		Name:      strings.TrimSpace(req.Name),
		SortOrder: req.SortOrder,
		Active:    true,
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}

	s.logActivity(ctx, adminID, enums.ActivityActionCreate, category.ID, "created category "+category.Name, nil, categorySnapshot(category))
	return category, nil
}

func (s *service) Update(ctx context.Context, adminID, categoryID uuid.UUID, req UpdateRequest) (*models.Category, error) {
	if categoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find category")
	}
	before := categorySnapshot(category)

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}

	s.logActivity(ctx, adminID, enums.ActivityActionUpdate, category.ID, "updated category "+category.Name, before, categorySnapshot(category))
	return category, nil
}

// Delete refuses to remove a category that still has products attached.
func (s *service) Delete(ctx context.Context, adminID, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id required")
	}
	category, err := s.repo.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find category")
	}

	attached, err := s.repo.CountProducts(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	if attached > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "category still has products")
	}

	deleted, err := s.repo.Delete(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}

	s.logActivity(ctx, adminID, enums.ActivityActionDelete, categoryID, "deleted category "+category.Name, categorySnapshot(category), nil)
	return nil
}

func (s *service) logActivity(ctx context.Context, adminID uuid.UUID, action enums.ActivityAction, categoryID uuid.UUID, description string, before, after types.JSONMap) {
	_ = s.activity.Append(ctx, nil, activity.AppendInput{
		UserID:      adminID,
		Action:      action,
		Entity:      enums.ActivityEntityCategory,
		EntityID:    &categoryID,
		Description: description,
		Before:      before,
		After:       after,
	})
}

func categorySnapshot(category *models.Category) types.JSONMap {
	return types.JSONMap{
		"slug":       category.Slug,
		"name":       category.Name,
		"sort_order": category.SortOrder,
		"active":     category.Active,
	}
}
