package activity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
	"github.com/ekomart/ekomart-backend/pkg/types"
)

// Service records and lists the admin audit trail.
type Service interface {
	Append(ctx context.Context, tx *gorm.DB, input AppendInput) error
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error)
}

// AppendInput describes one audit entry.
type AppendInput struct {
	UserID      uuid.UUID
	Action      enums.ActivityAction
	Entity      enums.ActivityEntity
	EntityID    *uuid.UUID
	Description string
	Before      types.JSONMap
	After       types.JSONMap
}

// ListResult wraps audit rows plus the pagination envelope.
type ListResult struct {
	Items      []models.ActivityLog `json:"items"`
	Pagination pagination.Meta      `json:"pagination"`
}

type service struct {
	repo Repository
}

// NewService wires the activity dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "activity repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Append(ctx context.Context, tx *gorm.DB, input AppendInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if !input.Action.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid activity action")
	}
	if !input.Entity.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid activity entity")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "description required")
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	entry := &models.ActivityLog{
		UserID:      input.UserID,
		Action:      input.Action,
		Entity:      input.Entity,
		EntityID:    input.EntityID,
		Description: description,
		Before:      input.Before,
		After:       input.After,
	}
	if err := repo.Create(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append activity log")
	}
	return nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	rows, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list activity logs")
	}
	return &ListResult{
		Items:      rows,
		Pagination: pagination.BuildMeta(params, total),
	}, nil
}
