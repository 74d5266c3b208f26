package sale

import (
	"fmt"
	"strings"
	"time"

	"mandira-backend/internal/audit"
	"mandira-backend/internal/auth"
	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSaleRequest struct {
	Date       *string `json:"date"` // "2025-12-09" formatında, boşsa bugün
	CustomerID uint    `json:"customer_id"`
	ShiftID    uint    `json:"shift_id"`
	EmployeeID *uint   `json:"employee_id"`
	Product    string  `json:"product"`
	QuantityLt float64 `json:"quantity_lt"`
	UnitPrice  float64 `json:"unit_price"`
	Note       string  `json:"note"`
	// super_admin için opsiyonel:
	BranchID *uint `json:"branch_id"`
}

type UpdateSaleRequest struct {
	Date       *string  `json:"date"`
	CustomerID *uint    `json:"customer_id"`
	ShiftID    *uint    `json:"shift_id"`
	EmployeeID *uint    `json:"employee_id"`
	Product    *string  `json:"product"`
	QuantityLt *float64 `json:"quantity_lt"`
	UnitPrice  *float64 `json:"unit_price"`
	Note       *string  `json:"note"`
}

type SaleResponse struct {
	ID           uint    `json:"id"`
	BranchID     uint    `json:"branch_id"`
	CustomerID   uint    `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	ShiftID      uint    `json:"shift_id"`
	ShiftName    string  `json:"shift_name"`
	EmployeeID   *uint   `json:"employee_id"`
	Date         string  `json:"date"`
	Product      string  `json:"product"`
	QuantityLt   float64 `json:"quantity_lt"`
	UnitPrice    float64 `json:"unit_price"`
	TotalPrice   float64 `json:"total_price"`
	Note         string  `json:"note"`
}

func getUserInfo(c *fiber.Ctx) (uint, string, *uint, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", nil, fiber.NewError(fiber.StatusForbidden, i18n.T(c, "Kullanıcı bilgisi alınamadı"))
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", nil, fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Kullanıcı bulunamadı"))
	}

	var branchID *uint
	if bPtr, ok := c.Locals(auth.CtxBranchIDKey).(*uint); ok && bPtr != nil {
		branchID = bPtr
	}

	return userID, user.Name, branchID, nil
}

func getBranchIDForRequest(c *fiber.Ctx, bodyBranchID *uint) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, i18n.T(c, "Rol bilgisi alınamadı"))
	}

	if role == models.RoleBranchAdmin {
		branchIDPtr, ok := c.Locals(auth.CtxBranchIDKey).(*uint)
		if !ok || branchIDPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, i18n.T(c, "Şube bilgisi bulunamadı"))
		}
		return *branchIDPtr, nil
	}

	if bodyBranchID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "branch_id zorunlu"))
	}
	return *bodyBranchID, nil
}

func getBranchIDFromQuery(c *fiber.Ctx) (uint, error) {
	roleVal := c.Locals(auth.CtxUserRoleKey)
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return 0, fiber.NewError(fiber.StatusForbidden, i18n.T(c, "Rol bilgisi alınamadı"))
	}

	if role == models.RoleBranchAdmin {
		branchIDPtr, ok := c.Locals(auth.CtxBranchIDKey).(*uint)
		if !ok || branchIDPtr == nil {
			return 0, fiber.NewError(fiber.StatusForbidden, i18n.T(c, "Şube bilgisi bulunamadı"))
		}
		return *branchIDPtr, nil
	}

	bidStr := c.Query("branch_id")
	if bidStr == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "branch_id zorunlu"))
	}
	var bid uint
	if _, err := fmt.Sscan(bidStr, &bid); err != nil || bid == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "branch_id geçersiz"))
	}
	return bid, nil
}

// Yardımcı: branch_admin yalnızca kendi şubesinin kaydına erişebilir,
// başka şubenin kaydı dışarıya 404 görünür. super_admin için kısıt yok.
func checkBranchAccess(c *fiber.Ctx, recordBranchID uint, notFoundMsg string) error {
	role, ok := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
	if !ok {
		return fiber.NewError(fiber.StatusForbidden, i18n.T(c, "Rol bilgisi alınamadı"))
	}
	if role != models.RoleBranchAdmin {
		return nil
	}
	branchIDPtr, ok := c.Locals(auth.CtxBranchIDKey).(*uint)
	if !ok || branchIDPtr == nil {
		return fiber.NewError(fiber.StatusForbidden, i18n.T(c, "Şube bilgisi bulunamadı"))
	}
	if *branchIDPtr != recordBranchID {
		return fiber.NewError(fiber.StatusNotFound, i18n.T(c, notFoundMsg))
	}
	return nil
}

func parseDateOrToday(c *fiber.Ctx, s *string) (time.Time, error) {
	if s == nil || *s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	d, err := time.ParseInLocation("2006-01-02", *s, time.Local)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Tarih formatı geçersiz (YYYY-AA-GG)"))
	}
	return d, nil
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz istek gövdesi"))
		}

		branchID, err := getBranchIDForRequest(c, body.BranchID)
		if err != nil {
			return err
		}

		if body.QuantityLt <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Miktar 0'dan büyük olmalı"))
		}
		if body.UnitPrice <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Birim fiyat 0'dan büyük olmalı"))
		}

		date, err := parseDateOrToday(c, body.Date)
		if err != nil {
			return err
		}

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ? AND branch_id = ?", body.CustomerID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Müşteri bulunamadı"))
		}

		var shift models.Shift
		if err := database.DB.First(&shift, "id = ?", body.ShiftID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Vardiya bulunamadı"))
		}

		product := strings.TrimSpace(body.Product)
		if product == "" {
			product = "çiğ süt"
		}

		sale := models.Sale{
			BranchID:   branchID,
			CustomerID: body.CustomerID,
			ShiftID:    body.ShiftID,
			EmployeeID: body.EmployeeID,
			Date:       date,
			Product:    product,
			QuantityLt: body.QuantityLt,
			UnitPrice:  body.UnitPrice,
			TotalPrice: body.QuantityLt * body.UnitPrice,
			Note:       body.Note,
		}

		if err := database.DB.Create(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Satış kaydı oluşturulamadı"))
		}

		if userID, userName, userBranchID, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    userBranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("%s: %.1f lt satış", customer.Name, sale.QuantityLt),
				After:       sale,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale, &customer, &shift))
	}
}

// GET /api/sales?from=2025-12-01&to=2025-12-31&customer_id=2&branch_id=1
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := getBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Sale{}).
			Preload("Customer").
			Preload("Shift").
			Where("branch_id = ?", branchID)

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Tarih formatı geçersiz (YYYY-AA-GG)"))
			}
			dbq = dbq.Where("date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Tarih formatı geçersiz (YYYY-AA-GG)"))
			}
			dbq = dbq.Where("date < ?", to.AddDate(0, 0, 1))
		}
		if cidStr := c.Query("customer_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err == nil && cid > 0 {
				dbq = dbq.Where("customer_id = ?", cid)
			}
		}

		var sales []models.Sale
		if err := dbq.Order("date DESC, id DESC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Satış kayıtları listelenemedi"))
		}

		res := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			res = append(res, toSaleResponse(s, &s.Customer, &s.Shift))
		}

		return c.JSON(res)
	}
}

// GET /api/sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sale models.Sale
		if err := database.DB.Preload("Customer").Preload("Shift").
			First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Satış kaydı bulunamadı"))
		}
		if err := checkBranchAccess(c, sale.BranchID, "Satış kaydı bulunamadı"); err != nil {
			return err
		}

		return c.JSON(toSaleResponse(sale, &sale.Customer, &sale.Shift))
	}
}

// PUT /api/sales/:id
func UpdateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Satış kaydı bulunamadı"))
		}
		if err := checkBranchAccess(c, sale.BranchID, "Satış kaydı bulunamadı"); err != nil {
			return err
		}

		before := sale

		var body UpdateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz istek gövdesi"))
		}

		if body.Date != nil {
			date, err := parseDateOrToday(c, body.Date)
			if err != nil {
				return err
			}
			sale.Date = date
		}
		if body.CustomerID != nil {
			var customer models.Customer
			if err := database.DB.First(&customer, "id = ? AND branch_id = ?", *body.CustomerID, sale.BranchID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Müşteri bulunamadı"))
			}
			sale.CustomerID = *body.CustomerID
		}
		if body.ShiftID != nil {
			var shift models.Shift
			if err := database.DB.First(&shift, "id = ?", *body.ShiftID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Vardiya bulunamadı"))
			}
			sale.ShiftID = *body.ShiftID
		}
		if body.EmployeeID != nil {
			sale.EmployeeID = body.EmployeeID
		}
		if body.Product != nil {
			product := strings.TrimSpace(*body.Product)
			if product != "" {
				sale.Product = product
			}
		}
		if body.QuantityLt != nil {
			if *body.QuantityLt <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Miktar 0'dan büyük olmalı"))
			}
			sale.QuantityLt = *body.QuantityLt
		}
		if body.UnitPrice != nil {
			if *body.UnitPrice <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Birim fiyat 0'dan büyük olmalı"))
			}
			sale.UnitPrice = *body.UnitPrice
		}
		if body.Note != nil {
			sale.Note = *body.Note
		}

		sale.TotalPrice = sale.QuantityLt * sale.UnitPrice

		if err := database.DB.Save(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Satış kaydı güncellenemedi"))
		}

		if userID, userName, userBranchID, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    userBranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Satış kaydı güncellendi (#%d)", sale.ID),
				Before:      before,
				After:       sale,
			})
		}

		var customer models.Customer
		database.DB.First(&customer, "id = ?", sale.CustomerID)
		var shift models.Shift
		database.DB.First(&shift, "id = ?", sale.ShiftID)

		return c.JSON(toSaleResponse(sale, &customer, &shift))
	}
}

// DELETE /api/sales/:id
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var sale models.Sale
		if err := database.DB.First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Satış kaydı bulunamadı"))
		}
		if err := checkBranchAccess(c, sale.BranchID, "Satış kaydı bulunamadı"); err != nil {
			return err
		}

		if err := database.DB.Delete(&sale).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Satış kaydı silinemedi"))
		}

		if userID, userName, userBranchID, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    userBranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Satış kaydı silindi (#%d)", sale.ID),
				After:       sale,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toSaleResponse(s models.Sale, customer *models.Customer, shift *models.Shift) SaleResponse {
	res := SaleResponse{
		ID:         s.ID,
		BranchID:   s.BranchID,
		CustomerID: s.CustomerID,
		ShiftID:    s.ShiftID,
		EmployeeID: s.EmployeeID,
		Date:       s.Date.Format("2006-01-02"),
		Product:    s.Product,
		QuantityLt: s.QuantityLt,
		UnitPrice:  s.UnitPrice,
		TotalPrice: s.TotalPrice,
		Note:       s.Note,
	}
	if customer != nil {
		res.CustomerName = customer.Name
	}
	if shift != nil {
		res.ShiftName = shift.Name
	}
	return res
}
