// internal/services/store_failure_test.go
package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestStoreFailuresAreNotServiceErrors(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	svc := NewProductService(db, newLocalStore(t))

	mock.ExpectQuery(`SELECT \* FROM "products"`).WillReturnError(errors.New("connection reset"))
	_, err := svc.ListProducts(ctx)
	require.Error(t, err)

	var svcErr *Error
	assert.False(t, errors.As(err, &svcErr))

	mock.ExpectQuery(`SELECT \* FROM "products"`).WillReturnError(errors.New("connection reset"))
	_, err = svc.GetProduct(ctx, 1)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusUnknownRequestOnPostgres(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewRequestService(db, LenientPolicy{})

	mock.ExpectQuery(`SELECT \* FROM "requests"`).WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))
	_, err := svc.UpdateStatus(context.Background(), 5, &UpdateRequestStatusRequest{Status: "Confirmed"})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
