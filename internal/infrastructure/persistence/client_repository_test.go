package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockClientRepository creates a GormClientRepository with a mocked SQL connection
func newMockClientRepository(t *testing.T) (*GormClientRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormClientRepository(gormDB), mock, mockDB
}

func TestGormClientRepository_FindByID(t *testing.T) {
	t.Run("finds existing client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "status", "outstanding_receivable"}).
			AddRow(clientID, "Sharma Traders", "active", decimal.NewFromInt(1200))

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnRows(rows)

		client, err := repo.FindByID(context.Background(), clientID)

		assert.NoError(t, err)
		assert.NotNil(t, client)
		assert.Equal(t, "Sharma Traders", client.Name)
		assert.True(t, client.OutstandingReceivable.Equal(decimal.NewFromInt(1200)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "clients" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(clientID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		client, err := repo.FindByID(context.Background(), clientID)

		assert.Error(t, err)
		assert.Nil(t, client)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_AdjustOutstanding(t *testing.T) {
	t.Run("applies delta in SQL", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()
		delta := decimal.NewFromInt(-400)

		mock.ExpectExec(`UPDATE "clients" SET "outstanding_receivable"=outstanding_receivable \+ \$1,"updated_at"=\$2 WHERE id = \$3`).
			WithArgs(delta, sqlmock.AnyArg(), clientID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AdjustOutstanding(context.Background(), clientID, delta)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for unknown client", func(t *testing.T) {
		repo, mock, mockDB := newMockClientRepository(t)
		defer mockDB.Close()

		clientID := uuid.New()

		mock.ExpectExec(`UPDATE "clients" SET`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), clientID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.AdjustOutstanding(context.Background(), clientID, decimal.NewFromInt(100))

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormClientRepository_FindAll(t *testing.T) {
	repo, mock, mockDB := newMockClientRepository(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "status"}).
		AddRow(uuid.New(), "Sharma Traders", "active").
		AddRow(uuid.New(), "Gupta & Sons", "active")

	mock.ExpectQuery(`SELECT \* FROM "clients" .* ORDER BY created_at DESC LIMIT .*`).
		WillReturnRows(rows)

	clients, err := repo.FindAll(context.Background(), shared.DefaultFilter())

	assert.NoError(t, err)
	assert.Len(t, clients, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
