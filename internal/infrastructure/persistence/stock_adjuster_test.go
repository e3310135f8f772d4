package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStockAdjuster(t *testing.T) (*GormStockAdjuster, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockAdjuster(gormDB), mock, mockDB
}

func TestGormStockAdjuster_StockIn(t *testing.T) {
	adjuster, mock, mockDB := newMockStockAdjuster(t)
	defer mockDB.Close()

	itemID := uuid.New()

	mock.ExpectExec(`INSERT INTO "stock_levels" .* ON CONFLICT \("item_id"\) DO UPDATE SET .*quantity.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adjuster.StockIn(context.Background(), itemID, decimal.NewFromInt(50))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStockAdjuster_StockOut(t *testing.T) {
	adjuster, mock, mockDB := newMockStockAdjuster(t)
	defer mockDB.Close()

	itemID := uuid.New()

	mock.ExpectExec(`INSERT INTO "stock_levels" .* ON CONFLICT \("item_id"\) DO UPDATE SET .*quantity.*`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := adjuster.StockOut(context.Background(), itemID, decimal.NewFromInt(4))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStockAdjuster_RejectsNilItem(t *testing.T) {
	adjuster, _, mockDB := newMockStockAdjuster(t)
	defer mockDB.Close()

	err := adjuster.StockIn(context.Background(), uuid.Nil, decimal.NewFromInt(1))

	assert.Error(t, err)
}
