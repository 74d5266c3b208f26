package audit

import (
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
	app.Post("/api/audit-logs/:id/undo", UndoAuditLogHandler())
	return app
}

func auditLogRow(branchID interface{}, action, entityType, afterData string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "branch_id", "user_id", "user_name", "entity_type", "entity_id",
		"action", "description", "before_data", "after_data", "undone", "is_undone",
	}).AddRow(30, branchID, 5, "ayşe", entityType, 77, action, "Toplama kaydı silindi (#77)", "null", afterData, false, false)
}

func TestUndoOtherBranchForbidden(t *testing.T) {
	mock := setupMockDB(t)

	// Log 1 numaralı şubeye ait, istek 2 numaralı şubenin admininden geliyor
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE id = \$1`).
		WithArgs(uint(30), 1).
		WillReturnRows(auditLogRow(1, "delete", "milk_collection", "null"))

	branchID := uint(2)
	app := setupApp(models.RoleBranchAdmin, &branchID)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/audit-logs/30/undo", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Geri alma sorguları hiç çalışmamalı
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUndoDeleteRecreatesEntity(t *testing.T) {
	mock := setupMockDB(t)

	afterData := `{"id":77,"branch_id":1,"farmer_id":3,"shift_id":1,"quantity_lt":40,"unit_price":18,"total_price":720}`

	// Handler'daki yetki kontrolü için ilk okuma
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE id = \$1`).
		WithArgs(uint(30), 1).
		WillReturnRows(auditLogRow(1, "delete", "milk_collection", afterData))

	// Undo eden kullanıcının adı
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs(uint(5), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
			AddRow(5, "admin", "admin@mandira.local", "super_admin"))

	// UndoLog log'u kendisi tekrar okur
	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE id = \$1`).
		WithArgs(uint(30), 1).
		WillReturnRows(auditLogRow(1, "delete", "milk_collection", afterData))

	// Silinen toplama kaydı geri oluşturulur
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "milk_collections"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(78))
	mock.ExpectCommit()

	// Log is_undone işaretlenir
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "audit_logs"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Undo işleminin kendi log'u yazılır
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))
	mock.ExpectCommit()

	app := setupApp(models.RoleSuperAdmin, nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/audit-logs/30/undo", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUndoAlreadyUndoneRejected(t *testing.T) {
	mock := setupMockDB(t)

	undone := sqlmock.NewRows([]string{
		"id", "branch_id", "user_id", "user_name", "entity_type", "entity_id",
		"action", "description", "before_data", "after_data", "undone", "is_undone",
	}).AddRow(30, nil, 5, "admin", "milk_collection", 77, "delete", "Toplama kaydı silindi (#77)", "null", "null", false, true)

	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE id = \$1`).
		WithArgs(uint(30), 1).
		WillReturnRows(undone)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs(uint(5), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "role"}).
			AddRow(5, "admin", "admin@mandira.local", "super_admin"))

	undone2 := sqlmock.NewRows([]string{
		"id", "branch_id", "user_id", "user_name", "entity_type", "entity_id",
		"action", "description", "before_data", "after_data", "undone", "is_undone",
	}).AddRow(30, nil, 5, "admin", "milk_collection", 77, "delete", "Toplama kaydı silindi (#77)", "null", "null", false, true)

	mock.ExpectQuery(`SELECT \* FROM "audit_logs" WHERE id = \$1`).
		WithArgs(uint(30), 1).
		WillReturnRows(undone2)

	app := setupApp(models.RoleSuperAdmin, nil)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/audit-logs/30/undo", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
