package report

import (
	"time"

	"mandira-backend/internal/database"
	"mandira-backend/internal/models"
)

// ReportRow: Excel/PDF tablolarının ortak satır yapısı
type ReportRow struct {
	Date      string
	Code      string // üretici kodu (satışlarda boş)
	Party     string // üretici veya müşteri adı
	Shift     string
	Product   string
	Quantity  float64
	UnitPrice float64
	Total     float64
}

func fetchCollectionRows(branchID uint, from, to time.Time) ([]ReportRow, error) {
	var cols []models.MilkCollection
	if err := database.DB.Preload("Farmer").Preload("Shift").
		Where("branch_id = ? AND date >= ? AND date < ?", branchID, from, to.AddDate(0, 0, 1)).
		Order("date ASC, id ASC").
		Find(&cols).Error; err != nil {
		return nil, err
	}

	rows := make([]ReportRow, 0, len(cols))
	for _, col := range cols {
		rows = append(rows, ReportRow{
			Date:      col.Date.Format("2006-01-02"),
			Code:      col.Farmer.Code,
			Party:     col.Farmer.Name,
			Shift:     col.Shift.Name,
			Product:   "çiğ süt",
			Quantity:  col.QuantityLt,
			UnitPrice: col.UnitPrice,
			Total:     col.TotalPrice,
		})
	}
	return rows, nil
}

func fetchSaleRows(branchID uint, from, to time.Time) ([]ReportRow, error) {
	var sales []models.Sale
	if err := database.DB.Preload("Customer").Preload("Shift").
		Where("branch_id = ? AND date >= ? AND date < ?", branchID, from, to.AddDate(0, 0, 1)).
		Order("date ASC, id ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}

	rows := make([]ReportRow, 0, len(sales))
	for _, s := range sales {
		rows = append(rows, ReportRow{
			Date:      s.Date.Format("2006-01-02"),
			Party:     s.Customer.Name,
			Shift:     s.Shift.Name,
			Product:   s.Product,
			Quantity:  s.QuantityLt,
			UnitPrice: s.UnitPrice,
			Total:     s.TotalPrice,
		})
	}
	return rows, nil
}

func sumRows(rows []ReportRow) (totalLt, totalAmount float64) {
	for _, r := range rows {
		totalLt += r.Quantity
		totalAmount += r.Total
	}
	return
}
