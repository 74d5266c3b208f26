package auth

import (
	"strings"

	"mandira-backend/internal/config"
	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// FindUserByLogin: Email veya kullanıcı adıyla kullanıcı bul.
// Varsayılan admin "admin" kısa adıyla da giriş yapabilsin diye name üzerinden de aranır.
func FindUserByLogin(login string) (*models.User, error) {
	login = strings.TrimSpace(strings.ToLower(login))

	var user models.User
	if err := database.DB.Where("email = ? OR name = ?", login, login).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckPassword: bcrypt karşılaştırması
func CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz istek gövdesi"))
		}

		user, err := FindUserByLogin(body.Email)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, i18n.T(c, "Email veya şifre hatalı"))
		}

		if !CheckPassword(user, body.Password) {
			return fiber.NewError(fiber.StatusUnauthorized, i18n.T(c, "Email veya şifre hatalı"))
		}

		token, err := GenerateToken(cfg, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Token oluşturulamadı"))
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":        user.ID,
				"name":      user.Name,
				"email":     user.Email,
				"role":      user.Role,
				"branch_id": user.BranchID,
			},
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userIDVal := c.Locals(CtxUserIDKey)
		roleVal := c.Locals(CtxUserRoleKey)
		branchIDVal := c.Locals(CtxBranchIDKey)

		// Kullanıcı bilgilerini veritabanından çek
		var user models.User
		if userID, ok := userIDVal.(uint); ok {
			if err := database.DB.First(&user, userID).Error; err == nil {
				response := fiber.Map{
					"user_id":   user.ID,
					"name":      user.Name,
					"email":     user.Email,
					"role":      user.Role,
					"branch_id": user.BranchID,
				}

				// Branch admin ise şube bilgisini de ekle
				if user.BranchID != nil {
					var branch models.Branch
					if err := database.DB.First(&branch, *user.BranchID).Error; err == nil {
						response["branch"] = fiber.Map{
							"id":      branch.ID,
							"name":    branch.Name,
							"address": branch.Address,
							"phone":   branch.Phone,
						}
					}
				}

				return c.JSON(response)
			}
		}

		// Fallback: Eğer veritabanından çekilemezse locals'dan döndür
		return c.JSON(fiber.Map{
			"user_id":   userIDVal,
			"role":      roleVal,
			"branch_id": branchIDVal,
		})
	}
}
