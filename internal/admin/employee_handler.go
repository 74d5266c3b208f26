package admin

import (
	"strings"

	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type EmployeeResponse struct {
	ID        uint   `json:"id"`
	BranchID  uint   `json:"branch_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

type CreateEmployeeRequest struct {
	BranchID uint   `json:"branch_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Title    string `json:"title"`
}

type UpdateEmployeeRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Title *string `json:"title"`
}

// POST /api/admin/employees
func CreateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Personel adı boş olamaz"))
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Şube bulunamadı"))
		}

		employee := models.Employee{
			BranchID: body.BranchID,
			Name:     body.Name,
			Phone:    strings.TrimSpace(body.Phone),
			Title:    strings.TrimSpace(body.Title),
		}

		if err := database.DB.Create(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Personel oluşturulamadı"))
		}

		return c.Status(fiber.StatusCreated).JSON(toEmployeeResponse(employee))
	}
}

// GET /api/admin/employees?branch_id=1
func ListEmployeesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Employee{})

		if bid := c.QueryInt("branch_id"); bid > 0 {
			dbq = dbq.Where("branch_id = ?", bid)
		}

		var employees []models.Employee
		if err := dbq.Order("name ASC").Find(&employees).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Personel listelenemedi"))
		}

		res := make([]EmployeeResponse, 0, len(employees))
		for _, e := range employees {
			res = append(res, toEmployeeResponse(e))
		}

		return c.JSON(res)
	}
}

// PUT /api/admin/employees/:id
func UpdateEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var employee models.Employee
		if err := database.DB.First(&employee, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Personel bulunamadı"))
		}

		var body UpdateEmployeeRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Personel adı boş olamaz"))
			}
			employee.Name = name
		}
		if body.Phone != nil {
			employee.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Title != nil {
			employee.Title = strings.TrimSpace(*body.Title)
		}

		if err := database.DB.Save(&employee).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Personel güncellenemedi"))
		}

		return c.JSON(toEmployeeResponse(employee))
	}
}

// DELETE /api/admin/employees/:id
func DeleteEmployeeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Employee{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Personel silinemedi"))
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toEmployeeResponse(e models.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		BranchID:  e.BranchID,
		Name:      e.Name,
		Phone:     e.Phone,
		Title:     e.Title,
		CreatedAt: e.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
