package taxrates

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

var oneHundred = decimal.NewFromInt(100)

// CreateRequest is the admin payload for a new tax rate.
type CreateRequest struct {
	Country  string  `json:"country" validate:"required,len=2"`
	State    *string `json:"state,omitempty"`
	Zip      *string `json:"zip,omitempty"`
	Rate     string  `json:"rate" validate:"required"`
	Kind     string  `json:"kind" validate:"required,oneof=percentage fixed"`
	Priority int     `json:"priority"`
	Active   *bool   `json:"active,omitempty"`
}

// UpdateRequest carries optional fields for a tax rate update.
type UpdateRequest struct {
	Rate     *string `json:"rate,omitempty"`
	Priority *int    `json:"priority,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// ListResult wraps tax rates and the pagination envelope.
type ListResult struct {
	Items      []models.TaxRate `json:"items"`
	Pagination pagination.Meta  `json:"pagination"`
}

// Service manages tax rate configuration and resolution.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*models.TaxRate, error)
	Get(ctx context.Context, id uuid.UUID) (*models.TaxRate, error)
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.TaxRate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Resolve(ctx context.Context, country, state, zip string) (*models.TaxRate, error)
	ComputeTax(ctx context.Context, subtotal decimal.Decimal, country, state, zip string) (decimal.Decimal, error)
}

type service struct {
	repo Repository
}

// NewService wires the tax rate dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tax rates repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*models.TaxRate, error) {
	kind, err := enums.ParseTaxRateKind(req.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tax rate kind")
	}
	rate, err := parseRate(req.Rate, kind)
	if err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	record := &models.TaxRate{
		Country:  strings.ToUpper(strings.TrimSpace(req.Country)),
		State:    normalizeOptional(req.State),
		Zip:      normalizeOptional(req.Zip),
		Rate:     rate,
		Kind:     kind,
		Priority: req.Priority,
		Active:   active,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create tax rate")
	}
	return record, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.TaxRate, error) {
	rate, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tax rate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find tax rate")
	}
	return rate, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	rates, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tax rates")
	}
	return &ListResult{
		Items:      rates,
		Pagination: pagination.BuildMeta(params, total),
	}, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*models.TaxRate, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Rate != nil {
		rate, err := parseRate(*req.Rate, existing.Kind)
		if err != nil {
			return nil, err
		}
		updates["rate"] = rate
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if _, err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update tax rate")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete tax rate")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "tax rate not found")
	}
	return nil
}

// Resolve picks the winning rate for a location: the most specific active
// match (zip beats state beats country-wide), ties broken by priority, then
// by newest rate.
func (s *service) Resolve(ctx context.Context, country, state, zip string) (*models.TaxRate, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "country required")
	}

	candidates, err := s.repo.FindActiveForLocation(ctx, country, strings.TrimSpace(state), strings.TrimSpace(zip))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve tax rate")
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	best := candidates[0]
	bestScore := specificity(best)
	for _, candidate := range candidates[1:] {
		score := specificity(candidate)
		switch {
		case score > bestScore:
		case score == bestScore && candidate.Priority > best.Priority:
		case score == bestScore && candidate.Priority == best.Priority && candidate.CreatedAt.After(best.CreatedAt):
		default:
			continue
		}
		best = candidate
		bestScore = score
	}
	return &best, nil
}

// ComputeTax applies the resolved rate to a subtotal. No matching rate means
// zero tax.
func (s *service) ComputeTax(ctx context.Context, subtotal decimal.Decimal, country, state, zip string) (decimal.Decimal, error) {
	rate, err := s.Resolve(ctx, country, state, zip)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, nil
	}
	if rate.Kind == enums.TaxRateKindFixed {
		return rate.Rate.Round(2), nil
	}
	return subtotal.Mul(rate.Rate).Div(oneHundred).Round(2), nil
}

func specificity(rate models.TaxRate) int {
	score := 0
	if rate.State != nil {
		score++
	}
	if rate.Zip != nil {
		score += 2
	}
	return score
}

func parseRate(raw string, kind enums.TaxRateKind) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "rate must be a decimal number")
	}
	if rate.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "rate must not be negative")
	}
	if kind == enums.TaxRateKindPercentage && rate.GreaterThan(oneHundred) {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "percentage rate must not exceed 100")
	}
	return rate, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
