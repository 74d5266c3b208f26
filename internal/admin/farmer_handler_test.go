package admin

import (
	"net/http/httptest"
	"strings"
	"testing"

	"mandira-backend/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlmock destekli gorm bağlantısı; global DB geçici olarak değiştirilir
func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	old := database.DB
	database.DB = gdb
	t.Cleanup(func() {
		database.DB = old
		sqlDB.Close()
	})

	return mock
}

func TestCreateFarmerDuplicateCodeRejected(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "branches" WHERE id = \$1`).
		WithArgs(uint(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Merkez"))

	// Aynı kodla kayıtlı üretici zaten var
	mock.ExpectQuery(`SELECT \* FROM "farmers" WHERE code = \$1`).
		WithArgs("U-001", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "code", "name"}).
			AddRow(8, 1, "U-001", "Mehmet Çelik"))

	app := fiber.New()
	app.Post("/api/admin/farmers", CreateFarmerHandler())

	req := httptest.NewRequest("POST", "/api/admin/farmers",
		strings.NewReader(`{"branch_id":1,"code":"U-001","name":"Ayşe Yıldız"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// INSERT hiç çalışmamalı
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFarmerSuccess(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "branches" WHERE id = \$1`).
		WithArgs(uint(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Merkez"))

	mock.ExpectQuery(`SELECT \* FROM "farmers" WHERE code = \$1`).
		WithArgs("U-009", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "farmers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	app := fiber.New()
	app.Post("/api/admin/farmers", CreateFarmerHandler())

	req := httptest.NewRequest("POST", "/api/admin/farmers",
		strings.NewReader(`{"branch_id":1,"code":"U-009","name":"Ayşe Yıldız"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFarmerRequiresCodeAndName(t *testing.T) {
	setupMockDB(t)

	app := fiber.New()
	app.Post("/api/admin/farmers", CreateFarmerHandler())

	req := httptest.NewRequest("POST", "/api/admin/farmers",
		strings.NewReader(`{"branch_id":1,"code":"  ","name":""}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
