package payment

import (
	"fmt"
	"time"

	"mandira-backend/internal/audit"
	"mandira-backend/internal/auth"
	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateFarmerPaymentRequest struct {
	Date     *string              `json:"date"` // "2025-12-09" formatında, boşsa bugün
	FarmerID uint                 `json:"farmer_id"`
	Amount   float64              `json:"amount"`
	Method   models.PaymentMethod `json:"method"` // "cash" | "bank"
	Note     string               `json:"note"`
	// super_admin için opsiyonel:
	BranchID *uint `json:"branch_id"`
}

type FarmerPaymentResponse struct {
	ID         uint                 `json:"id"`
	BranchID   uint                 `json:"branch_id"`
	FarmerID   uint                 `json:"farmer_id"`
	FarmerName string               `json:"farmer_name"`
	Date       string               `json:"date"`
	Amount     float64              `json:"amount"`
	Method     models.PaymentMethod `json:"method"`
	ReceiptNo  string               `json:"receipt_no"`
	Note       string               `json:"note"`
}

// FarmerBalanceResponse: Üreticinin alacak durumu
// (toplam süt bedeli - toplam ödenen)
type FarmerBalanceResponse struct {
	FarmerID     uint    `json:"farmer_id"`
	TotalMilk    float64 `json:"total_milk"`    // toplam süt bedeli (TL)
	TotalMilkLt  float64 `json:"total_milk_lt"` // toplam litre
	TotalPaid    float64 `json:"total_paid"`
	BalanceOwed  float64 `json:"balance_owed"` // kooperatifin üreticiye borcu
}

// POST /api/farmer-payments
func CreateFarmerPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateFarmerPaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz istek gövdesi"))
		}

		branchID, err := getBranchIDForRequest(c, body.BranchID)
		if err != nil {
			return err
		}

		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Tutar 0'dan büyük olmalı"))
		}

		method := body.Method
		if method == "" {
			method = models.PaymentMethodCash
		}
		if method != models.PaymentMethodCash && method != models.PaymentMethodBank {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		date, err := parseDateOrToday(c, body.Date)
		if err != nil {
			return err
		}

		var farmer models.Farmer
		if err := database.DB.First(&farmer, "id = ? AND branch_id = ?", body.FarmerID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Üretici bulunamadı"))
		}

		pay := models.FarmerPayment{
			BranchID:  branchID,
			FarmerID:  body.FarmerID,
			Date:      date,
			Amount:    body.Amount,
			Method:    method,
			ReceiptNo: uuid.NewString(),
			Note:      body.Note,
		}

		if err := database.DB.Create(&pay).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Ödeme oluşturulamadı"))
		}

		if userID, userName, userBranchID, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    userBranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "farmer_payment",
				EntityID:    pay.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("%s: %.2f TL ödeme", farmer.Name, pay.Amount),
				After:       pay,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toFarmerPaymentResponse(pay, &farmer))
	}
}

// GET /api/farmer-payments?from=&to=&farmer_id=&branch_id=
func ListFarmerPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := getBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.FarmerPayment{}).
			Preload("Farmer").
			Where("branch_id = ?", branchID)

		dbq, err = applyDateRange(c, dbq)
		if err != nil {
			return err
		}

		if fidStr := c.Query("farmer_id"); fidStr != "" {
			var fid uint
			if _, err := fmt.Sscan(fidStr, &fid); err == nil && fid > 0 {
				dbq = dbq.Where("farmer_id = ?", fid)
			}
		}

		var pays []models.FarmerPayment
		if err := dbq.Order("date DESC, id DESC").Find(&pays).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Ödemeler listelenemedi"))
		}

		res := make([]FarmerPaymentResponse, 0, len(pays))
		for _, p := range pays {
			res = append(res, toFarmerPaymentResponse(p, &p.Farmer))
		}

		return c.JSON(res)
	}
}

// GET /api/farmer-payments/balance?farmer_id=3
// Üreticinin süt alacağı ile yapılan ödemelerin farkı
func GetFarmerBalanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var farmerID uint
		if _, err := fmt.Sscan(c.Query("farmer_id"), &farmerID); err != nil || farmerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		var farmer models.Farmer
		if err := database.DB.First(&farmer, "id = ?", farmerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Üretici bulunamadı"))
		}
		if err := checkBranchAccess(c, farmer.BranchID, "Üretici bulunamadı"); err != nil {
			return err
		}

		type sumRow struct {
			Total float64
			Lt    float64
		}

		var milk sumRow
		database.DB.Model(&models.MilkCollection{}).
			Select("COALESCE(SUM(total_price),0) AS total, COALESCE(SUM(quantity_lt),0) AS lt").
			Where("farmer_id = ?", farmerID).
			Scan(&milk)

		var paid float64
		database.DB.Model(&models.FarmerPayment{}).
			Select("COALESCE(SUM(amount),0)").
			Where("farmer_id = ?", farmerID).
			Scan(&paid)

		return c.JSON(FarmerBalanceResponse{
			FarmerID:    farmerID,
			TotalMilk:   milk.Total,
			TotalMilkLt: milk.Lt,
			TotalPaid:   paid,
			BalanceOwed: milk.Total - paid,
		})
	}
}

// DELETE /api/farmer-payments/:id
func DeleteFarmerPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var pay models.FarmerPayment
		if err := database.DB.First(&pay, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Ödeme kaydı bulunamadı"))
		}
		if err := checkBranchAccess(c, pay.BranchID, "Ödeme kaydı bulunamadı"); err != nil {
			return err
		}

		if err := database.DB.Delete(&pay).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Ödeme silinemedi"))
		}

		if userID, userName, userBranchID, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    userBranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "farmer_payment",
				EntityID:    pay.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Üretici ödemesi silindi (#%d)", pay.ID),
				After:       pay,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toFarmerPaymentResponse(p models.FarmerPayment, farmer *models.Farmer) FarmerPaymentResponse {
	res := FarmerPaymentResponse{
		ID:        p.ID,
		BranchID:  p.BranchID,
		FarmerID:  p.FarmerID,
		Date:      p.Date.Format("2006-01-02"),
		Amount:    p.Amount,
		Method:    p.Method,
		ReceiptNo: p.ReceiptNo,
		Note:      p.Note,
	}
	if farmer != nil {
		res.FarmerName = farmer.Name
	}
	return res
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

func applyDateRange(c *fiber.Ctx, dbq *gorm.DB) (*gorm.DB, error) {
	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Tarih formatı geçersiz (YYYY-AA-GG)"))
		}
		dbq = dbq.Where("date >= ?", from)
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Tarih formatı geçersiz (YYYY-AA-GG)"))
		}
		dbq = dbq.Where("date < ?", to.AddDate(0, 0, 1))
	}
	return dbq, nil
}
