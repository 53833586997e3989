package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/internal/activity"
	"github.com/ekomart/ekomart-backend/pkg/db/models"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

type fakeRepository struct {
	products    map[uuid.UUID]*models.Product
	bySlug      map[string]*models.Product
	lastFilters ListFilters
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		products: map[uuid.UUID]*models.Product{},
		bySlug:   map[string]*models.Product{},
	}
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, product *models.Product) error {
	if _, ok := f.bySlug[product.Slug]; ok {
		return gorm.ErrDuplicatedKey
	}
	product.ID = uuid.New()
	f.products[product.ID] = product
	f.bySlug[product.Slug] = product
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if p, ok := f.bySlug[slug]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.Product, int64, error) {
	f.lastFilters = filters
	var rows []models.Product
	for _, p := range f.products {
		if filters.ActiveOnly && !p.Active {
			continue
		}
		rows = append(rows, *p)
	}
	return rows, int64(len(rows)), nil
}

func (f *fakeRepository) Update(ctx context.Context, product *models.Product) error {
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	p, ok := f.products[id]
	if !ok {
		return false, nil
	}
	delete(f.bySlug, p.Slug)
	delete(f.products, id)
	return true, nil
}

type fakeActivity struct {
	activity.Service
	entries []activity.AppendInput
}

func (f *fakeActivity) Append(ctx context.Context, tx *gorm.DB, input activity.AppendInput) error {
	f.entries = append(f.entries, input)
	return nil
}

func newProductService(t *testing.T, repo Repository, audit *fakeActivity) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Activity: audit})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func seedProduct(repo *fakeRepository, slug string, active bool) *models.Product {
	p := &models.Product{
		ID:     uuid.New(),
		Slug:   slug,
		Name:   slug,
		Price:  decimal.RequireFromString("5.00"),
		Active: active,
	}
	repo.products[p.ID] = p
	repo.bySlug[slug] = p
	return p
}

func TestPublicListForcesActiveOnly(t *testing.T) {
	repo := newFakeRepository()
	seedProduct(repo, "visible", true)
	seedProduct(repo, "hidden", false)
	svc := newProductService(t, repo, &fakeActivity{})

	result, err := svc.PublicList(context.Background(), pagination.Params{Page: 1, Limit: 10}, "", nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !repo.lastFilters.ActiveOnly {
		t.Fatal("public list must force the active filter")
	}
	if len(result.Items) != 1 || result.Items[0].Slug != "visible" {
		t.Fatalf("items = %+v", result.Items)
	}
}

func TestPublicDetailHidesInactive(t *testing.T) {
	repo := newFakeRepository()
	seedProduct(repo, "retired", false)
	svc := newProductService(t, repo, &fakeActivity{})

	_, err := svc.PublicDetail(context.Background(), "retired")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestCreateValidatesSlug(t *testing.T) {
	svc := newProductService(t, newFakeRepository(), &fakeActivity{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		Slug:  "Bad Slug!",
		Name:  "Bad",
		Price: "1.00",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestCreateRejectsSaleAbovePrice(t *testing.T) {
	svc := newProductService(t, newFakeRepository(), &fakeActivity{})

	sale := "6.00"
	_, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		Slug:      "apples",
		Name:      "Apples",
		Price:     "5.00",
		SalePrice: &sale,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestCreateLogsActivity(t *testing.T) {
	repo := newFakeRepository()
	audit := &fakeActivity{}
	svc := newProductService(t, repo, audit)
	adminID := uuid.New()

	product, err := svc.Create(context.Background(), adminID, CreateRequest{
		Slug:  "organic-apples",
		Name:  "Organic Apples",
		Price: "3.99",
		Stock: 10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !product.Active {
		t.Fatal("products default to active")
	}
	if len(audit.entries) != 1 {
		t.Fatalf("activity entries = %d", len(audit.entries))
	}
	entry := audit.entries[0]
	if entry.Action != enums.ActivityActionCreate || entry.Entity != enums.ActivityEntityProduct {
		t.Fatalf("entry = %+v", entry)
	}
	if entry.EntityID == nil || *entry.EntityID != product.ID {
		t.Fatalf("entity id = %v", entry.EntityID)
	}
}

func TestCreateDuplicateSlugConflict(t *testing.T) {
	repo := newFakeRepository()
	seedProduct(repo, "organic-apples", true)
	svc := newProductService(t, repo, &fakeActivity{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		Slug:  "organic-apples",
		Name:  "Organic Apples",
		Price: "3.99",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	repo := newFakeRepository()
	product := seedProduct(repo, "granola", true)
	audit := &fakeActivity{}
	svc := newProductService(t, repo, audit)

	newName := "Crunchy Granola"
	updated, err := svc.Update(context.Background(), uuid.New(), product.ID, UpdateRequest{Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Crunchy Granola" {
		t.Fatalf("name = %q", updated.Name)
	}
	if !updated.Price.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("untouched price changed: %s", updated.Price)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != enums.ActivityActionUpdate {
		t.Fatalf("activity = %+v", audit.entries)
	}
}

func TestDeleteMissing(t *testing.T) {
	svc := newProductService(t, newFakeRepository(), &fakeActivity{})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("err = %v, want not found", err)
	}
}
