package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

type fakeRepo struct {
	created   []*models.ActivityLog
	createErr error
	rows      []models.ActivityLog
	total     int64
	txUsed    bool
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository {
	f.txUsed = true
	return f
}

func (f *fakeRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, entry)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.ActivityLog, int64, error) {
	return f.rows, f.total, nil
}

func (f *fakeRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func TestAppendRecordsEntry(t *testing.T) {
	repo := &fakeRepo{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	adminID := uuid.New()
	entityID := uuid.New()
	err = svc.Append(context.Background(), nil, AppendInput{
		UserID:      adminID,
		Action:      enums.ActivityActionCreate,
		Entity:      enums.ActivityEntityProduct,
		EntityID:    &entityID,
		Description: "created product",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.created))
	}
	entry := repo.created[0]
	if entry.UserID != adminID {
		t.Fatalf("unexpected user id: %s", entry.UserID)
	}
	if entry.Action != enums.ActivityActionCreate {
		t.Fatalf("unexpected action: %s", entry.Action)
	}
	if repo.txUsed {
		t.Fatal("expected no tx-bound repo without a transaction")
	}
}

func TestAppendUsesTransactionWhenProvided(t *testing.T) {
	repo := &fakeRepo{}
	svc, _ := NewService(repo)

	err := svc.Append(context.Background(), &gorm.DB{}, AppendInput{
		UserID:      uuid.New(),
		Action:      enums.ActivityActionUpdate,
		Entity:      enums.ActivityEntityOrder,
		Description: "updated order status",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if !repo.txUsed {
		t.Fatal("expected repo to be bound to the transaction")
	}
}

func TestAppendValidation(t *testing.T) {
	svc, _ := NewService(&fakeRepo{})

	cases := []struct {
		name  string
		input AppendInput
	}{
		{"missing user", AppendInput{Action: enums.ActivityActionCreate, Entity: enums.ActivityEntityProduct, Description: "x"}},
		{"invalid action", AppendInput{UserID: uuid.New(), Action: "bogus", Entity: enums.ActivityEntityProduct, Description: "x"}},
		{"invalid entity", AppendInput{UserID: uuid.New(), Action: enums.ActivityActionCreate, Entity: "bogus", Description: "x"}},
		{"blank description", AppendInput{UserID: uuid.New(), Action: enums.ActivityActionCreate, Entity: enums.ActivityEntityProduct, Description: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Append(context.Background(), nil, tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestAppendWrapsRepoError(t *testing.T) {
	repo := &fakeRepo{createErr: errors.New("connection reset")}
	svc, _ := NewService(repo)

	err := svc.Append(context.Background(), nil, AppendInput{
		UserID:      uuid.New(),
		Action:      enums.ActivityActionDelete,
		Entity:      enums.ActivityEntityBanner,
		Description: "removed banner",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestListBuildsPagination(t *testing.T) {
	repo := &fakeRepo{
		rows:  []models.ActivityLog{{ID: uuid.New()}, {ID: uuid.New()}},
		total: 12,
	}
	svc, _ := NewService(repo)

	result, err := svc.List(context.Background(), pagination.Params{Page: 1, Limit: 2}, ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Items))
	}
	if result.Pagination.Total != 12 {
		t.Fatalf("expected total 12, got %d", result.Pagination.Total)
	}
}
