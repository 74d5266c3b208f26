package admin

import (
	"strings"

	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CustomerResponse struct {
	ID        uint   `json:"id"`
	BranchID  uint   `json:"branch_id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

type CreateCustomerRequest struct {
	BranchID uint   `json:"branch_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// POST /api/admin/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Müşteri adı boş olamaz"))
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Şube bulunamadı"))
		}

		customer := models.Customer{
			BranchID: body.BranchID,
			Name:     body.Name,
			Phone:    strings.TrimSpace(body.Phone),
			Address:  body.Address,
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Müşteri oluşturulamadı"))
		}

		return c.Status(fiber.StatusCreated).JSON(toCustomerResponse(customer))
	}
}

// GET /api/admin/customers?branch_id=1
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Customer{})

		if bid := c.QueryInt("branch_id"); bid > 0 {
			dbq = dbq.Where("branch_id = ?", bid)
		}

		var customers []models.Customer
		if err := dbq.Order("name ASC").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Müşteriler listelenemedi"))
		}

		res := make([]CustomerResponse, 0, len(customers))
		for _, cu := range customers {
			res = append(res, toCustomerResponse(cu))
		}

		return c.JSON(res)
	}
}

// PUT /api/admin/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Müşteri bulunamadı"))
		}

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Müşteri adı boş olamaz"))
			}
			customer.Name = name
		}
		if body.Phone != nil {
			customer.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Address != nil {
			customer.Address = *body.Address
		}

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Müşteri güncellenemedi"))
		}

		return c.JSON(toCustomerResponse(customer))
	}
}

// DELETE /api/admin/customers/:id
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if err := database.DB.Delete(&models.Customer{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Müşteri silinemedi"))
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toCustomerResponse(cu models.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        cu.ID,
		BranchID:  cu.BranchID,
		Name:      cu.Name,
		Phone:     cu.Phone,
		Address:   cu.Address,
		CreatedAt: cu.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
