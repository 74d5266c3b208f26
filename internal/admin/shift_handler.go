package admin

import (
	"strings"

	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ShiftResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type CreateShiftRequest struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"` // "05:00"
	EndTime   string `json:"end_time"`
}

type UpdateShiftRequest struct {
	Name      *string `json:"name"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

// POST /api/admin/shifts
func CreateShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateShiftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Vardiya adı boş olamaz"))
		}

		shift := models.Shift{
			Name:      body.Name,
			StartTime: body.StartTime,
			EndTime:   body.EndTime,
		}

		if err := database.DB.Create(&shift).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Vardiya oluşturulamadı"))
		}

		return c.Status(fiber.StatusCreated).JSON(toShiftResponse(shift))
	}
}

// GET /api/admin/shifts
func ListShiftsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var shifts []models.Shift
		if err := database.DB.Order("start_time ASC").Find(&shifts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Vardiyalar listelenemedi"))
		}

		res := make([]ShiftResponse, 0, len(shifts))
		for _, s := range shifts {
			res = append(res, toShiftResponse(s))
		}

		return c.JSON(res)
	}
}

// PUT /api/admin/shifts/:id
func UpdateShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var shift models.Shift
		if err := database.DB.First(&shift, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Vardiya bulunamadı"))
		}

		var body UpdateShiftRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Vardiya adı boş olamaz"))
			}
			shift.Name = name
		}
		if body.StartTime != nil {
			shift.StartTime = *body.StartTime
		}
		if body.EndTime != nil {
			shift.EndTime = *body.EndTime
		}

		if err := database.DB.Save(&shift).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Vardiya güncellenemedi"))
		}

		return c.JSON(toShiftResponse(shift))
	}
}

// DELETE /api/admin/shifts/:id
func DeleteShiftHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Shift{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Vardiya silinemedi"))
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toShiftResponse(s models.Shift) ShiftResponse {
	return ShiftResponse{
		ID:        s.ID,
		Name:      s.Name,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}
