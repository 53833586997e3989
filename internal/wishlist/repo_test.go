package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ekomart/ekomart-backend/pkg/pagination"
)

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:wishlist_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	wishlistItems := `
CREATE TABLE IF NOT EXISTS wishlist_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, product_id)
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  slug TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  category_id TEXT,
  price NUMERIC NOT NULL,
  sale_price NUMERIC,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(wishlistItems).Error)
	require.NoError(t, db.Exec(products).Error)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	err := db.Exec(
		`INSERT INTO products (id, slug, name, price, active) VALUES (?, ?, ?, ?, 1)`,
		id, name+"-"+id.String()[:8], name, "2.50",
	).Error
	require.NoError(t, err)
	return id
}

func TestRepositoryAddDuplicateIsNoOp(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := seedProduct(t, db, "granola")

	inserted, err := repo.Add(ctx, userID, productID, MaxItems)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Add(ctx, userID, productID, MaxItems)
	require.NoError(t, err)
	assert.False(t, inserted, "duplicate insert must touch zero rows")

	count, err := repo.Count(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepositoryAddRespectsCap(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		inserted, err := repo.Add(ctx, userID, seedProduct(t, db, "filler"), 3)
		require.NoError(t, err)
		require.True(t, inserted)
	}

	inserted, err := repo.Add(ctx, userID, seedProduct(t, db, "overflow"), 3)
	require.NoError(t, err)
	assert.False(t, inserted, "insert past the cap must touch zero rows")

	count, err := repo.Count(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// The cap is per user, not global.
	otherUser := uuid.New()
	inserted, err = repo.Add(ctx, otherUser, seedProduct(t, db, "fresh"), 3)
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestRepositoryListJoinsProducts(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := seedProduct(t, db, "oat milk")
	inserted, err := repo.Add(ctx, userID, productID, MaxItems)
	require.NoError(t, err)
	require.True(t, inserted)

	entries, total, err := repo.List(ctx, userID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, productID, entries[0].ProductID)
	assert.Equal(t, "oat milk", entries[0].Name)
	assert.True(t, entries[0].Active)
}

func TestRepositoryRemove(t *testing.T) {
	db := setupWishlistTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	productID := seedProduct(t, db, "granola")
	_, err := repo.Add(ctx, userID, productID, MaxItems)
	require.NoError(t, err)

	removed, err := repo.Remove(ctx, userID, productID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, userID, productID)
	require.NoError(t, err)
	assert.False(t, removed)
}
