package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vitrinelabs/vitrine-backend/pkg/db/models"
	"github.com/vitrinelabs/vitrine-backend/pkg/enums"
	"github.com/vitrinelabs/vitrine-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  full_name TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'buyer',
  phone TEXT,
  address TEXT,
  zipcode TEXT,
  city TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total TEXT NOT NULL,
  status TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  boleto_due_date DATETIME,
  boleto_barcode TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_at_time TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func newBuyer(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()),
		PasswordHash: "x",
		FullName:     name,
		Role:         enums.UserRoleBuyer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func insertOrder(t *testing.T, db *gorm.DB, buyer *models.User, created time.Time, status enums.OrderStatus) *models.Order {
	t.Helper()

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          buyer.ID,
		Total:           decimal.NewFromFloat(199.9),
		Status:          status,
		PaymentMethod:   enums.PaymentMethodPix,
		DeliveryAddress: "CEP: 01305-100 | Rua Augusta, 1000 | São Paulo",
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryCreateAndGetByID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	buyer := newBuyer(t, db, "Ana Silva")
	order := insertOrder(t, db, buyer, time.Now().UTC(), enums.OrderStatusPending)
	items := []models.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: uuid.New(), Quantity: 2, PriceAtTime: decimal.NewFromFloat(49.9)},
		{ID: uuid.New(), OrderID: order.ID, ProductID: uuid.New(), Quantity: 1, PriceAtTime: decimal.NewFromFloat(100.1)},
	}
	require.NoError(t, repo.CreateItems(ctx, items))

	found, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Len(t, found.Items, 2)

	status, err := repo.GetStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, status)
}

func TestRepositoryUpdateStatusReportsAffectedRows(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	buyer := newBuyer(t, db, "Ana Silva")
	order := insertOrder(t, db, buyer, time.Now().UTC(), enums.OrderStatusPending)

	affected, err := repo.UpdateStatus(ctx, order.ID, enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.Zero(t, affected)

	status, err := repo.GetStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, status)
}

func TestRepositoryListByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	buyer := newBuyer(t, db, "Ana Silva")
	other := newBuyer(t, db, "Outro Cliente")
	now := time.Now().UTC()
	older := insertOrder(t, db, buyer, now.Add(-time.Hour), enums.OrderStatusDelivered)
	newer := insertOrder(t, db, buyer, now, enums.OrderStatusPending)
	insertOrder(t, db, other, now, enums.OrderStatusPending)

	list, err := repo.ListByUser(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestRepositoryListAdminPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	buyer := newBuyer(t, db, "Ana Silva")
	now := time.Now().UTC()
	first := insertOrder(t, db, buyer, now.Add(-time.Hour), enums.OrderStatusPaid)
	second := insertOrder(t, db, buyer, now, enums.OrderStatusPending)

	rows, err := repo.ListAdmin(ctx, AdminListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, "Ana Silva", rows[0].BuyerName)

	cursor := &pagination.Cursor{CreatedAt: rows[0].CreatedAt, ID: rows[0].ID}
	older, err := repo.ListAdmin(ctx, AdminListFilter{Limit: 10, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, first.ID, older[0].ID)
}

func TestRepositoryDeleteItemsThenOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	buyer := newBuyer(t, db, "Ana Silva")
	order := insertOrder(t, db, buyer, time.Now().UTC(), enums.OrderStatusCancelled)
	require.NoError(t, repo.CreateItems(ctx, []models.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: uuid.New(), Quantity: 1, PriceAtTime: decimal.NewFromFloat(10)},
	}))

	require.NoError(t, repo.DeleteItems(ctx, order.ID))
	require.NoError(t, repo.Delete(ctx, order.ID))

	var itemCount int64
	require.NoError(t, db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount).Error)
	assert.Zero(t, itemCount)

	_, err := repo.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
