package payment

import (
	"fmt"

	"mandira-backend/internal/audit"
	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateCustomerPaymentRequest struct {
	Date       *string              `json:"date"`
	CustomerID uint                 `json:"customer_id"`
	Amount     float64              `json:"amount"`
	Method     models.PaymentMethod `json:"method"`
	Note       string               `json:"note"`
	BranchID   *uint                `json:"branch_id"`
}

type CustomerPaymentResponse struct {
	ID           uint                 `json:"id"`
	BranchID     uint                 `json:"branch_id"`
	CustomerID   uint                 `json:"customer_id"`
	CustomerName string               `json:"customer_name"`
	Date         string               `json:"date"`
	Amount       float64              `json:"amount"`
	Method       models.PaymentMethod `json:"method"`
	ReceiptNo    string               `json:"receipt_no"`
	Note         string               `json:"note"`
}

// CustomerBalanceResponse: Müşterinin borç durumu
// (toplam satış tutarı - toplam tahsilat)
type CustomerBalanceResponse struct {
	CustomerID uint    `json:"customer_id"`
	TotalSales float64 `json:"total_sales"`
	TotalPaid  float64 `json:"total_paid"`
	BalanceDue float64 `json:"balance_due"` // müşterinin kooperatife borcu
}

// POST /api/customer-payments
func CreateCustomerPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerPaymentRequest
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

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ? AND branch_id = ?", body.CustomerID, branchID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Müşteri bulunamadı"))
		}

		pay := models.CustomerPayment{
			BranchID:   branchID,
			CustomerID: body.CustomerID,
			Date:       date,
			Amount:     body.Amount,
			Method:     method,
			ReceiptNo:  uuid.NewString(),
			Note:       body.Note,
		}

		if err := database.DB.Create(&pay).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Ödeme oluşturulamadı"))
		}

		if userID, userName, userBranchID, err := getUserInfo(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				BranchID:    userBranchID,
				UserID:      userID,
				UserName:    userName,
				EntityType:  "customer_payment",
				EntityID:    pay.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("%s: %.2f TL tahsilat", customer.Name, pay.Amount),
				After:       pay,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toCustomerPaymentResponse(pay, &customer))
	}
}

// GET /api/customer-payments?from=&to=&customer_id=&branch_id=
func ListCustomerPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := getBranchIDFromQuery(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.CustomerPayment{}).
			Preload("Customer").
			Where("branch_id = ?", branchID)

		dbq, err = applyDateRange(c, dbq)
		if err != nil {
			return err
		}

		if cidStr := c.Query("customer_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err == nil && cid > 0 {
				dbq = dbq.Where("customer_id = ?", cid)
			}
		}

		var pays []models.CustomerPayment
		if err := dbq.Order("date DESC, id DESC").Find(&pays).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Ödemeler listelenemedi"))
		}

		res := make([]CustomerPaymentResponse, 0, len(pays))
		for _, p := range pays {
			res = append(res, toCustomerPaymentResponse(p, &p.Customer))
		}

		return c.JSON(res)
	}
}

// GET /api/customer-payments/balance?customer_id=2
func GetCustomerBalanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customerID uint
		if _, err := fmt.Sscan(c.Query("customer_id"), &customerID); err != nil || customerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", customerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Müşteri bulunamadı"))
		}
		if err := checkBranchAccess(c, customer.BranchID, "Müşteri bulunamadı"); err != nil {
			return err
		}

		var totalSales float64
		database.DB.Model(&models.Sale{}).
			Select("COALESCE(SUM(total_price),0)").
			Where("customer_id = ?", customerID).
			Scan(&totalSales)

		var paid float64
		database.DB.Model(&models.CustomerPayment{}).
			Select("COALESCE(SUM(amount),0)").
			Where("customer_id = ?", customerID).
			Scan(&paid)

		return c.JSON(CustomerBalanceResponse{
			CustomerID: customerID,
			TotalSales: totalSales,
			TotalPaid:  paid,
			BalanceDue: totalSales - paid,
		})
	}
}

// DELETE /api/customer-payments/:id
func DeleteCustomerPaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var pay models.CustomerPayment
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
				EntityType:  "customer_payment",
				EntityID:    pay.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Müşteri tahsilatı silindi (#%d)", pay.ID),
				After:       pay,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func toCustomerPaymentResponse(p models.CustomerPayment, customer *models.Customer) CustomerPaymentResponse {
	res := CustomerPaymentResponse{
		ID:         p.ID,
		BranchID:   p.BranchID,
		CustomerID: p.CustomerID,
		Date:       p.Date.Format("2006-01-02"),
		Amount:     p.Amount,
		Method:     p.Method,
		ReceiptNo:  p.ReceiptNo,
		Note:       p.Note,
	}
	if customer != nil {
		res.CustomerName = customer.Name
	}
	return res
}
