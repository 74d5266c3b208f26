package collection

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mandira-backend/internal/auth"
	"mandira-backend/internal/database"
	"mandira-backend/internal/models"

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

// JWT middleware'in koyduğu locals'ları taklit eder
func setupApp(role models.UserRole, branchID *uint) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxUserIDKey, uint(5))
		c.Locals(auth.CtxUserRoleKey, role)
		c.Locals(auth.CtxBranchIDKey, branchID)
		return c.Next()
	})
	app.Post("/api/milk-collections", CreateMilkCollectionHandler())
	app.Get("/api/milk-collections", ListMilkCollectionsHandler())
	app.Put("/api/milk-collections/:id", UpdateMilkCollectionHandler())
	app.Delete("/api/milk-collections/:id", DeleteMilkCollectionHandler())
	return app
}

func TestListMilkCollectionsBranchAdmin(t *testing.T) {
	mock := setupMockDB(t)

	date := time.Date(2026, 8, 10, 0, 0, 0, 0, time.Local)

	mock.ExpectQuery(`SELECT \* FROM "milk_collections" WHERE branch_id = \$1`).
		WithArgs(uint(2)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "branch_id", "farmer_id", "shift_id", "date", "quantity_lt", "fat_rate", "unit_price", "total_price", "note",
		}).AddRow(11, 2, 3, 1, date, 42.5, 3.8, 18.0, 765.0, ""))

	// Preload'lar alfabetik sırada çalışır: Farmer, Shift
	mock.ExpectQuery(`SELECT \* FROM "farmers" WHERE "farmers"\."id" = \$1`).
		WithArgs(uint(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "code", "name"}).
			AddRow(3, 2, "U-003", "Mehmet Çelik"))
	mock.ExpectQuery(`SELECT \* FROM "shifts" WHERE "shifts"\."id" = \$1`).
		WithArgs(uint(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_time", "end_time"}).
			AddRow(1, "sabah", "05:00", "12:00"))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	req := httptest.NewRequest("GET", "/api/milk-collections", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got []MilkCollectionResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got, 1)

	assert.Equal(t, uint(11), got[0].ID)
	assert.Equal(t, "U-003", got[0].FarmerCode)
	assert.Equal(t, "Mehmet Çelik", got[0].FarmerName)
	assert.Equal(t, "sabah", got[0].ShiftName)
	assert.Equal(t, "2026-08-10", got[0].Date)
	assert.InDelta(t, 765.0, got[0].TotalPrice, 0.001)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMilkCollectionsEmpty(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "milk_collections" WHERE branch_id = \$1`).
		WithArgs(uint(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/milk-collections", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "[]", string(body))
}

func TestListMilkCollectionsSuperAdminRequiresBranchID(t *testing.T) {
	setupMockDB(t)

	app := setupApp(models.RoleSuperAdmin, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/milk-collections", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListMilkCollectionsInvalidDateFilter(t *testing.T) {
	setupMockDB(t)

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/milk-collections?from=09-12-2025", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreateMilkCollectionComputesTotal(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "farmers" WHERE id = \$1 AND branch_id = \$2`).
		WithArgs(uint(3), uint(2), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "code", "name"}).
			AddRow(3, 2, "U-003", "Mehmet Çelik"))
	mock.ExpectQuery(`SELECT \* FROM "shifts" WHERE id = \$1`).
		WithArgs(uint(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "start_time", "end_time"}).
			AddRow(1, "sabah", "05:00", "12:00"))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "milk_collections"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	// audit log için kullanıcı ve insert
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs(uint(5), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
			AddRow(5, "ayşe", "ayse@mandira.local", "branch_admin"))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	body := `{"farmer_id":3,"shift_id":1,"quantity_lt":40,"unit_price":18.5,"date":"2026-08-10"}`
	req := httptest.NewRequest("POST", "/api/milk-collections", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got MilkCollectionResponse
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, uint(2), got.BranchID)
	assert.InDelta(t, 740.0, got.TotalPrice, 0.001) // 40 lt * 18.5 TL

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMilkCollectionRejectsNonPositiveQuantity(t *testing.T) {
	setupMockDB(t)

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	for _, body := range []string{
		`{"farmer_id":3,"shift_id":1,"quantity_lt":0,"unit_price":18.5}`,
		`{"farmer_id":3,"shift_id":1,"quantity_lt":-5,"unit_price":18.5}`,
		`{"farmer_id":3,"shift_id":1,"quantity_lt":40,"unit_price":0}`,
	} {
		req := httptest.NewRequest("POST", "/api/milk-collections", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body: %s", body)
	}
}

func TestDeleteMilkCollectionOtherBranch(t *testing.T) {
	mock := setupMockDB(t)

	// Kayıt 1 numaralı şubeye ait, istek 2 numaralı şubenin admininden geliyor
	mock.ExpectQuery(`SELECT \* FROM "milk_collections" WHERE id = \$1`).
		WithArgs("77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "farmer_id", "shift_id", "quantity_lt", "unit_price", "total_price"}).
			AddRow(77, 1, 3, 1, 40.0, 18.0, 720.0))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/milk-collections/77", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// DELETE sorgusu hiç çalışmamalı
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMilkCollectionOtherBranch(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "milk_collections" WHERE id = \$1`).
		WithArgs("77", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "farmer_id", "shift_id", "quantity_lt", "unit_price", "total_price"}).
			AddRow(77, 1, 3, 1, 40.0, 18.0, 720.0))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	req := httptest.NewRequest("PUT", "/api/milk-collections/77", strings.NewReader(`{"quantity_lt":1}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
