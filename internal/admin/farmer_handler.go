package admin

import (
	"errors"
	"strings"

	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FarmerResponse struct {
	ID        uint   `json:"id"`
	BranchID  uint   `json:"branch_id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

type CreateFarmerRequest struct {
	BranchID uint   `json:"branch_id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type UpdateFarmerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// POST /api/admin/farmers
func CreateFarmerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFarmerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		body.Code = strings.TrimSpace(body.Code)
		body.Name = strings.TrimSpace(body.Name)

		if body.Code == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Üretici kodu ve adı zorunlu"))
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Şube bulunamadı"))
		}

		// Üretici kodu tekil olmalı
		var exist models.Farmer
		err := database.DB.Where("code = ?", body.Code).First(&exist).Error
		if err == nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Bu üretici kodu zaten kayıtlı"))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Üretici oluşturulamadı"))
		}

		farmer := models.Farmer{
			BranchID: body.BranchID,
			Code:     body.Code,
			Name:     body.Name,
			Phone:    strings.TrimSpace(body.Phone),
			Address:  body.Address,
		}

		if err := database.DB.Create(&farmer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Üretici oluşturulamadı"))
		}

		return c.Status(fiber.StatusCreated).JSON(toFarmerResponse(farmer))
	}
}

// GET /api/admin/farmers?branch_id=1
func ListFarmersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Farmer{})

		if bid := c.QueryInt("branch_id"); bid > 0 {
			dbq = dbq.Where("branch_id = ?", bid)
		}

		var farmers []models.Farmer
		if err := dbq.Order("code ASC").Find(&farmers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Üreticiler listelenemedi"))
		}

		res := make([]FarmerResponse, 0, len(farmers))
		for _, f := range farmers {
			res = append(res, toFarmerResponse(f))
		}

		return c.JSON(res)
	}
}

// GET /api/admin/farmers/:id
func GetFarmerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var farmer models.Farmer
		if err := database.DB.First(&farmer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Üretici bulunamadı"))
		}

		return c.JSON(toFarmerResponse(farmer))
	}
}

// PUT /api/admin/farmers/:id
// Kod değiştirilemez, makbuzlarda geçiyor
func UpdateFarmerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var farmer models.Farmer
		if err := database.DB.First(&farmer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Üretici bulunamadı"))
		}

		var body UpdateFarmerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Üretici kodu ve adı zorunlu"))
			}
			farmer.Name = name
		}
		if body.Phone != nil {
			farmer.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Address != nil {
			farmer.Address = *body.Address
		}

		if err := database.DB.Save(&farmer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Üretici güncellenemedi"))
		}

		return c.JSON(toFarmerResponse(farmer))
	}
}

// DELETE /api/admin/farmers/:id
func DeleteFarmerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Farmer{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Üretici silinemedi"))
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toFarmerResponse(f models.Farmer) FarmerResponse {
	return FarmerResponse{
		ID:        f.ID,
		BranchID:  f.BranchID,
		Code:      f.Code,
		Name:      f.Name,
		Phone:     f.Phone,
		Address:   f.Address,
		CreatedAt: f.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
