package taxrates

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

type fakeRepo struct {
	active  []models.TaxRate
	created []*models.TaxRate
}

func (f *fakeRepo) Create(ctx context.Context, rate *models.TaxRate) error {
	f.created = append(f.created, rate)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.TaxRate, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) List(ctx context.Context, params pagination.Params) ([]models.TaxRate, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeRepo) FindActiveForLocation(ctx context.Context, country, state, zip string) ([]models.TaxRate, error) {
	return f.active, nil
}

func strPtr(s string) *string { return &s }

func rate(value string, state, zip *string, priority int) models.TaxRate {
	return models.TaxRate{
		ID:       uuid.New(),
		Country:  "US",
		State:    state,
		Zip:      zip,
		Rate:     decimal.RequireFromString(value),
		Kind:     enums.TaxRateKindPercentage,
		Priority: priority,
		Active:   true,
	}
}

func TestResolveMostSpecificWins(t *testing.T) {
	repo := &fakeRepo{active: []models.TaxRate{
		rate("5", nil, nil, 10),
		rate("7", strPtr("CA"), nil, 0),
		rate("9", strPtr("CA"), strPtr("94103"), 0),
	}}
	svc, _ := NewService(repo)

	winner, err := svc.Resolve(context.Background(), "US", "CA", "94103")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if winner == nil || !winner.Rate.Equal(decimal.RequireFromString("9")) {
		t.Fatalf("winner = %+v, want zip-scoped rate", winner)
	}
}

func TestResolveTieBrokenByPriority(t *testing.T) {
	repo := &fakeRepo{active: []models.TaxRate{
		rate("5", strPtr("CA"), nil, 1),
		rate("6", strPtr("CA"), nil, 9),
	}}
	svc, _ := NewService(repo)

	winner, err := svc.Resolve(context.Background(), "US", "CA", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if winner == nil || winner.Priority != 9 {
		t.Fatalf("winner = %+v, want priority 9", winner)
	}
}

func TestResolveEqualPriorityPrefersNewest(t *testing.T) {
	older := rate("5", strPtr("CA"), nil, 3)
	older.CreatedAt = time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	newer := rate("6", strPtr("CA"), nil, 3)
	newer.CreatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	repo := &fakeRepo{active: []models.TaxRate{older, newer}}
	svc, _ := NewService(repo)

	winner, err := svc.Resolve(context.Background(), "US", "CA", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if winner == nil || winner.ID != newer.ID {
		t.Fatalf("winner = %+v, want the newer rate", winner)
	}
}

func TestResolveNoMatchReturnsNil(t *testing.T) {
	svc, _ := NewService(&fakeRepo{})

	winner, err := svc.Resolve(context.Background(), "US", "", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if winner != nil {
		t.Fatalf("winner = %+v, want nil", winner)
	}
}

func TestComputeTaxPercentage(t *testing.T) {
	repo := &fakeRepo{active: []models.TaxRate{rate("8.25", nil, nil, 0)}}
	svc, _ := NewService(repo)

	tax, err := svc.ComputeTax(context.Background(), decimal.RequireFromString("100.00"), "US", "", "")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !tax.Equal(decimal.RequireFromString("8.25")) {
		t.Fatalf("tax = %s, want 8.25", tax)
	}
}

func TestComputeTaxNoRateIsZero(t *testing.T) {
	svc, _ := NewService(&fakeRepo{})

	tax, err := svc.ComputeTax(context.Background(), decimal.RequireFromString("50.00"), "US", "", "")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if !tax.IsZero() {
		t.Fatalf("tax = %s, want 0", tax)
	}
}

func TestCreateRejectsPercentageOver100(t *testing.T) {
	svc, _ := NewService(&fakeRepo{})

	_, err := svc.Create(context.Background(), CreateRequest{
		Country: "US",
		Rate:    "120",
		Kind:    "percentage",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestCreateAllowsFixedOver100(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := NewService(repo)

	created, err := svc.Create(context.Background(), CreateRequest{
		Country: "us",
		Rate:    "150",
		Kind:    "fixed",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Country != "US" {
		t.Fatalf("country = %q, want normalized US", created.Country)
	}
}
