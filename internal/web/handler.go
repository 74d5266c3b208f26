package web

import (
	"fmt"
	"time"

	"mandira-backend/internal/auth"
	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const sessionUserIDKey = "user_id"

// GET /health
func HealthHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// GET /api/test-db
// Bağlantıyı doğrulamak için basit bir SELECT 1
func TestDBHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var one int
		if err := database.DB.Raw("SELECT 1").Scan(&one).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"database": "error",
				"error":    err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"database": "ok",
		})
	}
}

// GET /simple-login
func SimpleLoginPageHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(loginPage(""))
	}
}

// POST /login (form: username, password)
func LoginFormHandler(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := c.FormValue("username")
		password := c.FormValue("password")

		user, err := auth.FindUserByLogin(username)
		if err != nil || !auth.CheckPassword(user, password) {
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.Status(fiber.StatusUnauthorized).
				SendString(loginPage(i18n.T(c, "Kullanıcı adı veya şifre hatalı")))
		}

		sess, err := store.Get(c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Beklenmeyen sunucu hatası"))
		}
		sess.Set(sessionUserIDKey, user.ID)
		if err := sess.Save(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Beklenmeyen sunucu hatası"))
		}

		return c.Redirect("/dashboard", fiber.StatusFound)
	}
}

// GET /logout
func LogoutHandler(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sess, err := store.Get(c); err == nil {
			_ = sess.Destroy()
		}
		return c.Redirect("/simple-login", fiber.StatusFound)
	}
}

// SessionRequired: HTML sayfaları için oturum kontrolü
func SessionRequired(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Redirect("/simple-login", fiber.StatusFound)
		}
		if sess.Get(sessionUserIDKey) == nil {
			return c.Redirect("/simple-login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// GET /dashboard
func DashboardPageHandler(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		today := time.Now().Format("2006-01-02")

		type sums struct {
			Lt     float64
			Amount float64
		}

		var collected, sold sums
		database.DB.Raw(`
			SELECT COALESCE(SUM(quantity_lt),0) AS lt, COALESCE(SUM(total_price),0) AS amount
			FROM milk_collections WHERE date::date = CURRENT_DATE
		`).Scan(&collected)
		database.DB.Raw(`
			SELECT COALESCE(SUM(quantity_lt),0) AS lt, COALESCE(SUM(total_price),0) AS amount
			FROM sales WHERE date::date = CURRENT_DATE
		`).Scan(&sold)

		var farmerCount, customerCount int64
		database.DB.Raw("SELECT COUNT(*) FROM farmers").Scan(&farmerCount)
		database.DB.Raw("SELECT COUNT(*) FROM customers").Scan(&customerCount)

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(dashboardPage(today, collected.Lt, collected.Amount, sold.Lt, sold.Amount, farmerCount, customerCount))
	}
}

// Basit gömülü HTML sayfaları. Ayrı bir frontend bu sayfaları kullanmaz,
// saha kullanımı ve hızlı kontrol içindir.

func loginPage(errMsg string) string {
	errHTML := ""
	if errMsg != "" {
		errHTML = fmt.Sprintf(`<p style="color:red">%s</p>`, errMsg)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="tr">
<head><meta charset="utf-8"><title>Mandıra - Giriş</title></head>
<body style="font-family:sans-serif;max-width:400px;margin:60px auto">
<h2>Mandıra Yönetimi</h2>
%s
<form method="POST" action="/login">
  <p><label>Kullanıcı adı<br><input name="username" autofocus></label></p>
  <p><label>Şifre<br><input name="password" type="password"></label></p>
  <p><button type="submit">Giriş</button></p>
</form>
</body>
</html>`, errHTML)
}

func dashboardPage(today string, collectedLt, collectedTRY, soldLt, soldTRY float64, farmerCount, customerCount int64) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="tr">
<head><meta charset="utf-8"><title>Mandıra - Özet</title></head>
<body style="font-family:sans-serif;max-width:600px;margin:60px auto">
<h2>Günlük Özet - %s</h2>
<table border="1" cellpadding="8" cellspacing="0">
  <tr><td>Toplanan süt</td><td>%.1f lt</td><td>%.2f TL</td></tr>
  <tr><td>Satılan süt</td><td>%.1f lt</td><td>%.2f TL</td></tr>
  <tr><td>Kayıtlı üretici</td><td colspan="2">%d</td></tr>
  <tr><td>Kayıtlı müşteri</td><td colspan="2">%d</td></tr>
</table>
<p><a href="/logout">Çıkış</a></p>
</body>
</html>`, today, collectedLt, collectedTRY, soldLt, soldTRY, farmerCount, customerCount)
}
