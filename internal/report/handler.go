package report

import (
	"fmt"
	"time"

	"mandira-backend/internal/auth"
	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

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

// Varsayılan aralık: içinde bulunulan ay
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, -1)

	if fromStr := c.Query("from"); fromStr != "" {
		d, err := time.ParseInLocation("2006-01-02", fromStr, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Tarih formatı geçersiz (YYYY-AA-GG)"))
		}
		from = d
	}
	if toStr := c.Query("to"); toStr != "" {
		d, err := time.ParseInLocation("2006-01-02", toStr, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Tarih formatı geçersiz (YYYY-AA-GG)"))
		}
		to = d
	}

	return from, to, nil
}

// GET /api/reports/collections.xlsx?from=&to=&branch_id=
func CollectionsExcelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := getBranchIDFromQuery(c)
		if err != nil {
			return err
		}
		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		rows, err := fetchCollectionRows(branchID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor verileri alınamadı"))
		}

		buf, err := BuildExcel("Süt Toplama Raporu", rows)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor oluşturulamadı"))
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, "attachment; filename=sut-toplama-raporu.xlsx")
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/sales.xlsx?from=&to=&branch_id=
func SalesExcelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := getBranchIDFromQuery(c)
		if err != nil {
			return err
		}
		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		rows, err := fetchSaleRows(branchID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor verileri alınamadı"))
		}

		buf, err := BuildExcel("Satış Raporu", rows)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor oluşturulamadı"))
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, "attachment; filename=satis-raporu.xlsx")
		return c.Send(buf.Bytes())
	}
}

// GET /api/reports/collections.pdf?from=&to=&branch_id=
func CollectionsPDFHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := getBranchIDFromQuery(c)
		if err != nil {
			return err
		}
		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		rows, err := fetchCollectionRows(branchID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor verileri alınamadı"))
		}

		data, err := BuildPDF("Süt Toplama Raporu", from, to, rows)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor oluşturulamadı"))
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, "attachment; filename=sut-toplama-raporu.pdf")
		return c.Send(data)
	}
}

// GET /api/reports/sales.pdf?from=&to=&branch_id=
func SalesPDFHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := getBranchIDFromQuery(c)
		if err != nil {
			return err
		}
		from, to, err := parseDateRange(c)
		if err != nil {
			return err
		}

		rows, err := fetchSaleRows(branchID, from, to)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor verileri alınamadı"))
		}

		data, err := BuildPDF("Satış Raporu", from, to, rows)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor oluşturulamadı"))
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, "attachment; filename=satis-raporu.pdf")
		return c.Send(data)
	}
}

// GET /api/reports/farmer-statement.pdf?farmer_id=3&year=2025&month=12
func FarmerStatementPDFHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var farmerID uint
		if _, err := fmt.Sscan(c.Query("farmer_id"), &farmerID); err != nil || farmerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		now := time.Now()
		year := c.QueryInt("year", now.Year())
		month := c.QueryInt("month", int(now.Month()))
		if month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
		}

		var farmer models.Farmer
		if err := database.DB.First(&farmer, "id = ?", farmerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, i18n.T(c, "Üretici bulunamadı"))
		}
		if err := checkBranchAccess(c, farmer.BranchID, "Üretici bulunamadı"); err != nil {
			return err
		}

		monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		monthEnd := monthStart.AddDate(0, 1, 0)

		var cols []models.MilkCollection
		if err := database.DB.Preload("Shift").
			Where("farmer_id = ? AND date >= ? AND date < ?", farmerID, monthStart, monthEnd).
			Order("date ASC, id ASC").
			Find(&cols).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor verileri alınamadı"))
		}

		var pays []models.FarmerPayment
		if err := database.DB.
			Where("farmer_id = ? AND date >= ? AND date < ?", farmerID, monthStart, monthEnd).
			Order("date ASC, id ASC").
			Find(&pays).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor verileri alınamadı"))
		}

		lines := make([]StatementLine, 0, len(cols)+len(pays))
		for _, col := range cols {
			lines = append(lines, StatementLine{
				Date:        col.Date.Format("2006-01-02"),
				Description: fmt.Sprintf("Süt alımı %.1f lt (%s)", col.QuantityLt, col.Shift.Name),
				Debit:       col.TotalPrice,
			})
		}
		for _, p := range pays {
			lines = append(lines, StatementLine{
				Date:        p.Date.Format("2006-01-02"),
				Description: fmt.Sprintf("Ödeme (%s) makbuz %s", p.Method, p.ReceiptNo),
				Credit:      p.Amount,
			})
		}

		data, err := BuildFarmerStatementPDF(farmer.Name, farmer.Code, year, month, lines)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Rapor oluşturulamadı"))
		}

		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=uretici-ekstre-%s-%04d-%02d.pdf", farmer.Code, year, month))
		return c.Send(data)
	}
}
