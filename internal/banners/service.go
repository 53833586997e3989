package banners

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/internal/activity"
	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/types"
)

// CreateRequest describes a new banner slot.
type CreateRequest struct {
	Position  string     `json:"position" validate:"required"`
	Title     string     `json:"title" validate:"required,min=2,max=200"`
	ImageURL  string     `json:"image_url" validate:"required,url"`
	LinkURL   *string    `json:"link_url" validate:"omitempty,url"`
	SortOrder int        `json:"sort_order" validate:"gte=0"`
	Active    *bool      `json:"active"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
}

// UpdateRequest carries partial banner changes; nil fields stay untouched.
type UpdateRequest struct {
	Title     *string    `json:"title" validate:"omitempty,min=2,max=200"`
	ImageURL  *string    `json:"image_url" validate:"omitempty,url"`
	LinkURL   *string    `json:"link_url" validate:"omitempty,url"`
	SortOrder *int       `json:"sort_order" validate:"omitempty,gte=0"`
	Active    *bool      `json:"active"`
	StartsAt  *time.Time `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at"`
}

// ServiceParams groups dependencies for the banner service.
type ServiceParams struct {
	Repo     Repository
	Activity activity.Service
	Now      func() time.Time
}

// Service exposes banner management and the public click counter.
type Service interface {
	PublicList(ctx context.Context, position *enums.BannerPosition) ([]models.Banner, error)
	Click(ctx context.Context, bannerID uuid.UUID) error
	AdminList(ctx context.Context) ([]models.Banner, error)
	Create(ctx context.Context, adminID uuid.UUID, req CreateRequest) (*models.Banner, error)
	Update(ctx context.Context, adminID, bannerID uuid.UUID, req UpdateRequest) (*models.Banner, error)
	Delete(ctx context.Context, adminID, bannerID uuid.UUID) error
}

type service struct {
	repo     Repository
	activity activity.Service
	now      func() time.Time
}

// NewService builds a banner service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner repo is required")
	}
	if params.Activity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity service is required")
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{repo: params.Repo, activity: params.Activity, now: now}, nil
}

func (s *service) PublicList(ctx context.Context, position *enums.BannerPosition) ([]models.Banner, error) {
	if position != nil && !position.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid banner position")
	}
	banners, err := s.repo.ListActive(ctx, position, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return banners, nil
}

// Click bumps the counter atomically; zero rows touched means no such banner.
func (s *service) Click(ctx context.Context, bannerID uuid.UUID) error {
	if bannerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "banner id required")
	}
	affected, err := s.repo.IncrementClicks(ctx, bannerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record banner click")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
	}
	return nil
}

func (s *service) AdminList(ctx context.Context) ([]models.Banner, error) {
	banners, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list banners")
	}
	return banners, nil
}

func (s *service) Create(ctx context.Context, adminID uuid.UUID, req CreateRequest) (*models.Banner, error) {
	position, err := enums.ParseBannerPosition(strings.TrimSpace(req.Position))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid banner position")
	}
	if err := validateWindow(req.StartsAt, req.EndsAt); err != nil {
		return nil, err
	}

	banner := &models.Banner{
		Position:  position,
		Title:     strings.TrimSpace(req.Title),
		ImageURL:  strings.TrimSpace(req.ImageURL),
		LinkURL:   req.LinkURL,
		SortOrder: req.SortOrder,
		Active:    true,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	}
	if req.Active != nil {
		banner.Active = *req.Active
	}

	if err := s.repo.Create(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create banner")
	}

	s.logActivity(ctx, adminID, enums.ActivityActionCreate, banner.ID, "created banner "+banner.Title, nil, bannerSnapshot(banner))
	return banner, nil
}

func (s *service) Update(ctx context.Context, adminID, bannerID uuid.UUID, req UpdateRequest) (*models.Banner, error) {
	if bannerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "banner id required")
	}
	banner, err := s.repo.FindByID(ctx, bannerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find banner")
	}
	before := bannerSnapshot(banner)

	if req.Title != nil {
		banner.Title = strings.TrimSpace(*req.Title)
	}
	if req.ImageURL != nil {
		banner.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.LinkURL != nil {
		banner.LinkURL = req.LinkURL
	}
	if req.SortOrder != nil {
		banner.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		banner.Active = *req.Active
	}
	if req.StartsAt != nil {
		banner.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		banner.EndsAt = req.EndsAt
	}
	if err := validateWindow(banner.StartsAt, banner.EndsAt); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, banner); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update banner")
	}

	s.logActivity(ctx, adminID, enums.ActivityActionUpdate, banner.ID, "updated banner "+banner.Title, before, bannerSnapshot(banner))
	return banner, nil
}

func (s *service) Delete(ctx context.Context, adminID, bannerID uuid.UUID) error {
	if bannerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "banner id required")
	}
	banner, err := s.repo.FindByID(ctx, bannerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find banner")
	}

	deleted, err := s.repo.Delete(ctx, bannerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete banner")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "banner not found")
	}

	s.logActivity(ctx, adminID, enums.ActivityActionDelete, bannerID, "deleted banner "+banner.Title, bannerSnapshot(banner), nil)
	return nil
}

func validateWindow(startsAt, endsAt *time.Time) error {
	if startsAt != nil && endsAt != nil && endsAt.Before(*startsAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "banner window must end after it starts")
	}
	return nil
}

func (s *service) logActivity(ctx context.Context, adminID uuid.UUID, action enums.ActivityAction, bannerID uuid.UUID, description string, before, after types.JSONMap) {
	_ = s.activity.Append(ctx, nil, activity.AppendInput{
		UserID:      adminID,
		Action:      action,
		Entity:      enums.ActivityEntityBanner,
		EntityID:    &bannerID,
		Description: description,
		Before:      before,
		After:       after,
	})
}

func bannerSnapshot(banner *models.Banner) types.JSONMap {
	return types.JSONMap{
		"position":   string(banner.Position),
		"title":      banner.Title,
		"active":     banner.Active,
		"sort_order": banner.SortOrder,
	}
}
