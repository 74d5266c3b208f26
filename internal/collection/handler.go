package collection

import (
	"fmt"
	"time"

	"mandira-backend/internal/audit"
	"mandira-backend/internal/auth"
	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateMilkCollectionRequest struct {
	Date       *string `json:"date"` // "2025-12-09" formatında, boşsa bugün
	FarmerID   uint    `json:"farmer_id"`
	ShiftID    uint    `json:"shift_id"`
	EmployeeID *uint   `json:"employee_id"`
	QuantityLt float64 `json:"quantity_lt"`
	FatRate    float64 `json:"fat_rate"`
	UnitPrice  float64 `json:"unit_price"`
	Note       string  `json:"note"`
	// super_admin için opsiyonel:
	BranchID *uint `json:"branch_id"`
}

type UpdateMilkCollectionRequest struct {
	Date       *string  `json:"date"`
	FarmerID   *uint    `json:"farmer_id"`
	ShiftID    *uint    `json:"shift_id"`
	EmployeeID *uint    `json:"employee_id"`
	QuantityLt *float64 `json:"quantity_lt"`
	FatRate    *float64 `json:"fat_rate"`
	UnitPrice  *float64 `json:"unit_price"`
	Note       *string  `json:"note"`
}

type MilkCollectionResponse struct {
	ID         uint    `json:"id"`
	BranchID   uint    `json:"branch_id"`
	FarmerID   uint    `json:"farmer_id"`
	FarmerCode string  `json:"farmer_code"`
	FarmerName string  `json:"farmer_name"`
	ShiftID    uint    `json:"shift_id"`
	ShiftName  string  `json:"shift_name"`
	EmployeeID *uint   `json:"employee_id"`
	Date       string  `json:"date"`
	QuantityLt float64 `json:"quantity_lt"`
	FatRate    float64 `json:"fat_rate"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	Note       string  `json:"note"`
}

// Yardımcı: Kullanıcı bilgilerini al
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
	bVal := c.Locals(auth.CtxBranchIDKey)
	if bPtr, ok := bVal.(*uint); ok && bPtr != nil {
		branchID = bPtr
	}

	return userID, user.Name, branchID, nil
}

// Yardımcı: context'ten branch id ve rolü çek.
// branch_admin kendi şubesinde çalışır, super_admin body'den göndermek zorunda.
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

	// super_admin
	if bodyBranchID == nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "branch_id zorunlu"))
	}
	return *bodyBranchID, nil
}

// Yardımcı: query'den veya role'den branch id (listeleme için)
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

// POST /api/milk-collections
func CreateMilkCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMilkCollectionRequest
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

		var farmer models.Farmer
		if err := database.DB.First(&farmer, "id = ? AND branch_id = ?", body.FarmerID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Üretici bulunamadı"))
		}

		var shift models.Shift
		if err := database.DB.First(&shift, "id = ?", body.ShiftID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Vardiya bulunamadı"))
		}

		col := models.MilkCollection{
			BranchID:   branchID,
			FarmerID:   body.FarmerID,
			ShiftID:    body.ShiftID,
			EmployeeID: body.EmployeeID,
			Date:       date,
			QuantityLt: body.QuantityLt,
			FatRate:    body.FatRate,
			UnitPrice:  body.UnitPrice,
			TotalPrice: body.QuantityLt * body.UnitPrice,
			Note:       body.Note,
		}

		if err := database.DB.Create(&col).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Toplama kaydı oluşturulamadı"))
		}

		// Audit log
		if userID, userName, userBranchID, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    userBranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "milk_collection",
				EntityID:    col.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("%s: %.1f lt süt alımı", farmer.Name, col.QuantityLt),
				After:       col,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toMilkCollectionResponse(col, &farmer, &shift))
	}
}

// GET /api/milk-collections?from=2025-12-01&to=2025-12-31&farmer_id=3&branch_id=1
func ListMilkCollectionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := getBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.MilkCollection{}).
			Preload("Farmer").
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
			// gün sonuna kadar dahil
			dbq = dbq.Where("date < ?", to.AddDate(0, 0, 1))
		}
		if fidStr := c.Query("farmer_id"); fidStr != "" {
			var fid uint
			if _, err := fmt.Sscan(fidStr, &fid); err == nil && fid > 0 {
				dbq = dbq.Where("farmer_id = ?", fid)
			}
		}
		if sidStr := c.Query("shift_id"); sidStr != "" {
			var sid uint
			if _, err := fmt.Sscan(sidStr, &sid); err == nil && sid > 0 {
				dbq = dbq.Where("shift_id = ?", sid)
			}
		}

		var cols []models.MilkCollection
		if err := dbq.Order("date DESC, id DESC").Find(&cols).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Toplama kayıtları listelenemedi"))
		}

		res := make([]MilkCollectionResponse, 0, len(cols))
		for _, col := range cols {
			res = append(res, toMilkCollectionResponse(col, &col.Farmer, &col.Shift))
		}

		return c.JSON(res)
	}
}

// GET /api/milk-collections/:id
func GetMilkCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var col models.MilkCollection
		if err := database.DB.Preload("Farmer").Preload("Shift").
			First(&col, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Toplama kaydı bulunamadı"))
		}
		if err := checkBranchAccess(c, col.BranchID, "Toplama kaydı bulunamadı"); err != nil {
			return err
		}

		return c.JSON(toMilkCollectionResponse(col, &col.Farmer, &col.Shift))
	}
}

// PUT /api/milk-collections/:id
func UpdateMilkCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var col models.MilkCollection
		if err := database.DB.First(&col, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Toplama kaydı bulunamadı"))
		}
		if err := checkBranchAccess(c, col.BranchID, "Toplama kaydı bulunamadı"); err != nil {
			return err
		}

		before := col

		var body UpdateMilkCollectionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz istek gövdesi"))
		}

		if body.Date != nil {
			date, err := parseDateOrToday(c, body.Date)
			if err != nil {
				return err
			}
			col.Date = date
		}
		if body.FarmerID != nil {
			var farmer models.Farmer
			if err := database.DB.First(&farmer, "id = ? AND branch_id = ?", *body.FarmerID, col.BranchID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Üretici bulunamadı"))
			}
			col.FarmerID = *body.FarmerID
		}
		if body.ShiftID != nil {
			var shift models.Shift
			if err := database.DB.First(&shift, "id = ?", *body.ShiftID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Vardiya bulunamadı"))
			}
			col.ShiftID = *body.ShiftID
		}
		if body.EmployeeID != nil {
			col.EmployeeID = body.EmployeeID
		}
		if body.QuantityLt != nil {
			if *body.QuantityLt <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Miktar 0'dan büyük olmalı"))
			}
			col.QuantityLt = *body.QuantityLt
		}
		if body.FatRate != nil {
			col.FatRate = *body.FatRate
		}
		if body.UnitPrice != nil {
			if *body.UnitPrice <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Birim fiyat 0'dan büyük olmalı"))
			}
			col.UnitPrice = *body.UnitPrice
		}
		if body.Note != nil {
			col.Note = *body.Note
		}

		// Toplam fiyat her durumda yeniden hesaplanır
		col.TotalPrice = col.QuantityLt * col.UnitPrice

		if err := database.DB.Save(&col).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Toplama kaydı güncellenemedi"))
		}

		if userID, userName, userBranchID, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    userBranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "milk_collection",
				EntityID:    col.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Toplama kaydı güncellendi (#%d)", col.ID),
				Before:      before,
				After:       col,
			})
		}

		var farmer models.Farmer
		database.DB.First(&farmer, "id = ?", col.FarmerID)
		var shift models.Shift
		database.DB.First(&shift, "id = ?", col.ShiftID)

		return c.JSON(toMilkCollectionResponse(col, &farmer, &shift))
	}
}

// DELETE /api/milk-collections/:id
func DeleteMilkCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var col models.MilkCollection
		if err := database.DB.First(&col, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Toplama kaydı bulunamadı"))
		}
		if err := checkBranchAccess(c, col.BranchID, "Toplama kaydı bulunamadı"); err != nil {
			return err
		}

		if err := database.DB.Delete(&col).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Toplama kaydı silinemedi"))
		}

		if userID, userName, userBranchID, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    userBranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "milk_collection",
				EntityID:    col.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Toplama kaydı silindi (#%d)", col.ID),
				After:       col, // undo için silinen veri AfterData'da tutulur
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toMilkCollectionResponse(col models.MilkCollection, farmer *models.Farmer, shift *models.Shift) MilkCollectionResponse {
	res := MilkCollectionResponse{
		ID:         col.ID,
		BranchID:   col.BranchID,
		FarmerID:   col.FarmerID,
		ShiftID:    col.ShiftID,
		EmployeeID: col.EmployeeID,
		Date:       col.Date.Format("2006-01-02"),
		QuantityLt: col.QuantityLt,
		FatRate:    col.FatRate,
		UnitPrice:  col.UnitPrice,
		TotalPrice: col.TotalPrice,
		Note:       col.Note,
	}
	if farmer != nil {
		res.FarmerCode = farmer.Code
		res.FarmerName = farmer.Name
	}
	if shift != nil {
		res.ShiftName = shift.Name
	}
	return res
}
