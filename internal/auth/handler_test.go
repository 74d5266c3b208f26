package auth

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"mandira-backend/internal/database"
	"mandira-backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
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

func userRows(t *testing.T, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "role"}).
		AddRow(1, "admin", "admin@mandira.local", string(hash), "super_admin")
}

func TestLoginHandlerIssuesValidToken(t *testing.T) {
	mock := setupMockDB(t)
	cfg := testConfig()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 OR name = \$2`).
		WithArgs("admin@mandira.local", "admin@mandira.local", 1).
		WillReturnRows(userRows(t, "admin123"))

	app := fiber.New()
	app.Post("/api/auth/login", LoginHandler(cfg))

	req := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"admin@mandira.local","password":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var got struct {
		Token string `json:"token"`
		User  struct {
			ID   uint            `json:"id"`
			Role models.UserRole `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	require.NotEmpty(t, got.Token)
	assert.Equal(t, models.RoleSuperAdmin, got.User.Role)

	// Dönen token aynı anahtarlarla doğrulanabilmeli
	claims, err := ParseToken(cfg, got.Token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "admin@mandira.local", claims.Email)
	assert.Equal(t, models.RoleSuperAdmin, claims.Role)
}

func TestLoginHandlerWrongPassword(t *testing.T) {
	mock := setupMockDB(t)
	cfg := testConfig()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 OR name = \$2`).
		WithArgs("admin", "admin", 1).
		WillReturnRows(userRows(t, "admin123"))

	app := fiber.New()
	app.Post("/api/auth/login", LoginHandler(cfg))

	req := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"admin","password":"yanlis"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginHandlerUnknownUser(t *testing.T) {
	mock := setupMockDB(t)
	cfg := testConfig()

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1 OR name = \$2`).
		WithArgs("yok@mandira.local", "yok@mandira.local", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	app := fiber.New()
	app.Post("/api/auth/login", LoginHandler(cfg))

	req := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"yok@mandira.local","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
