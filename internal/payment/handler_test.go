package payment

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

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
	app.Get("/api/farmer-payments/balance", GetFarmerBalanceHandler())
	app.Delete("/api/farmer-payments/:id", DeleteFarmerPaymentHandler())
	app.Get("/api/customer-payments/balance", GetCustomerBalanceHandler())
	app.Delete("/api/customer-payments/:id", DeleteCustomerPaymentHandler())
	return app
}

func TestDeleteFarmerPaymentOtherBranch(t *testing.T) {
	mock := setupMockDB(t)

	// Ödeme 1 numaralı şubeye ait, istek 2 numaralı şubenin admininden geliyor
	mock.ExpectQuery(`SELECT \* FROM "farmer_payments" WHERE id = \$1`).
		WithArgs("9", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "farmer_id", "amount", "method", "receipt_no"}).
			AddRow(9, 1, 3, 500.0, "cash", "mkz-1"))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/farmer-payments/9", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// DELETE sorgusu hiç çalışmamalı
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteCustomerPaymentOtherBranch(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "customer_payments" WHERE id = \$1`).
		WithArgs("4", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "customer_id", "amount", "method", "receipt_no"}).
			AddRow(4, 1, 7, 250.0, "bank", "mkz-2"))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/customer-payments/4", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmerBalanceOtherBranch(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "farmers" WHERE id = \$1`).
		WithArgs(uint(3), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "code", "name"}).
			AddRow(3, 1, "U-003", "Mehmet Çelik"))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/farmer-payments/balance?farmer_id=3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Bakiye sorguları hiç çalışmamalı
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFarmerBalanceComputation(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "farmers" WHERE id = \$1`).
		WithArgs(uint(3), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "code", "name"}).
			AddRow(3, 2, "U-003", "Mehmet Çelik"))

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_price\),0\) AS total, COALESCE\(SUM\(quantity_lt\),0\) AS lt FROM "milk_collections"`).
		WithArgs(uint(3)).
		WillReturnRows(sqlmock.NewRows([]string{"total", "lt"}).AddRow(900.0, 50.0))

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\),0\) FROM "farmer_payments"`).
		WithArgs(uint(3)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(400.0))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/farmer-payments/balance?farmer_id=3", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got FarmerBalanceResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.InDelta(t, 900.0, got.TotalMilk, 0.001)
	assert.InDelta(t, 50.0, got.TotalMilkLt, 0.001)
	assert.InDelta(t, 400.0, got.TotalPaid, 0.001)
	assert.InDelta(t, 500.0, got.BalanceOwed, 0.001)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerBalanceOtherBranch(t *testing.T) {
	mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1`).
		WithArgs(uint(7), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "branch_id", "name"}).
			AddRow(7, 1, "Bakkal Hüseyin"))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/customer-payments/balance?customer_id=7", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
