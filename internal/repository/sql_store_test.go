package repository_test

import (
	"context"
	"testing"
	"time"

	"join/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func TestSQLCollectionStore_Load_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	store := repository.NewSQLCollectionStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "collections" WHERE path = \$1`).
		WithArgs("contacts").
		WillReturnRows(sqlmock.NewRows([]string{"path", "body", "updated_at"}).
			AddRow("contacts", `[{"id":1,"name":"Ann Bell"}]`, time.Now()))

	// Act
	raw, err := store.Load(context.Background(), "contacts")

	// Assert
	assert.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Ann Bell"}]`, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCollectionStore_Load_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := repository.NewSQLCollectionStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "collections" WHERE path = \$1`).
		WithArgs("tasks").
		WillReturnRows(sqlmock.NewRows([]string{"path", "body", "updated_at"}))

	raw, err := store.Load(context.Background(), "tasks")

	assert.NoError(t, err) // an unknown path is an empty collection
	assert.Nil(t, raw)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCollectionStore_Load_Error(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := repository.NewSQLCollectionStore(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "collections" WHERE path = \$1`).
		WithArgs("tasks").
		WillReturnError(assert.AnError)

	raw, err := store.Load(context.Background(), "tasks")

	assert.Error(t, err)
	assert.Nil(t, raw)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCollectionStore_Replace_Upserts(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := repository.NewSQLCollectionStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "collections" .* ON CONFLICT \("path"\) DO UPDATE SET`).
		WithArgs("tasks", `[{"id":1}]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Replace(context.Background(), "tasks", []map[string]int{{"id": 1}})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLCollectionStore_Delete(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := repository.NewSQLCollectionStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "collections" WHERE path = \$1`).
		WithArgs("contacts").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Delete(context.Background(), "contacts")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
