package dashboard

import (
	"fmt"
	"sort"
	"time"

	"mandira-backend/internal/auth"
	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MilkChartPoint struct {
	Label        string  `json:"label"` // tarih / hafta başlangıcı / ay başlangıcı
	CollectedLt  float64 `json:"collected_lt"`
	SoldLt       float64 `json:"sold_lt"`
	CollectedTRY float64 `json:"collected_try"` // süt alım bedeli
	SoldTRY      float64 `json:"sold_try"`      // satış tutarı
}

type MilkChartGrandTotals struct {
	CollectedLt  float64 `json:"collected_lt"`
	SoldLt       float64 `json:"sold_lt"`
	CollectedTRY float64 `json:"collected_try"`
	SoldTRY      float64 `json:"sold_try"`
}

type MilkChartResponse struct {
	BranchID    uint                 `json:"branch_id"`
	Period      string               `json:"period"` // daily | weekly | monthly
	From        string               `json:"from"`
	To          string               `json:"to"`
	Points      []MilkChartPoint     `json:"points"`
	GrandTotals MilkChartGrandTotals `json:"grand_totals"`
}

// context'ten branch id çıkar (branch_admin için JWT, super_admin için query param)
func getBranchIDFromContext(c *fiber.Ctx) (uint, error) {
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

// GET /api/dashboard/milk-chart?period=daily&count=7&branch_id=1
// Toplama ve satış hacimlerini aynı zaman eksenine oturtur.
func MilkChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := getBranchIDFromContext(c)
		if err != nil {
			return err
		}

		period := c.Query("period", "daily") // daily | weekly | monthly
		countStr := c.Query("count", "")

		var count int
		if countStr == "" {
			switch period {
			case "weekly":
				count = 8
			case "monthly":
				count = 12
			default:
				period = "daily"
				count = 7
			}
		} else {
			if _, err := fmt.Sscan(countStr, &count); err != nil || count <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, i18n.T(c, "Geçersiz veri gönderildi"))
			}
		}

		now := time.Now()
		loc := now.Location()
		// bugünün 00:00'ı
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		var start time.Time

		var trunc string
		switch period {
		case "weekly":
			trunc = "week"
			start = end.AddDate(0, 0, -7*(count-1))
		case "monthly":
			trunc = "month"
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			start = end.AddDate(0, -(count - 1), 0)
			end = start.AddDate(0, count, 0).AddDate(0, 0, -1)
		default:
			period = "daily"
			trunc = "day"
			start = end.AddDate(0, 0, -(count - 1))
		}

		// aggregation sonucu satır yapısı
		type row struct {
			Bucket time.Time `gorm:"column:bucket"`
			Lt     float64   `gorm:"column:lt"`
			Amount float64   `gorm:"column:amount"`
		}

		collectSQL := fmt.Sprintf(`
			SELECT date_trunc('%s', date)::date AS bucket,
				   SUM(quantity_lt) AS lt,
				   SUM(total_price) AS amount
			FROM milk_collections
			WHERE branch_id = ? AND date >= ? AND date <= ?
			GROUP BY bucket
			ORDER BY bucket ASC;
		`, trunc)

		saleSQL := fmt.Sprintf(`
			SELECT date_trunc('%s', date)::date AS bucket,
				   SUM(quantity_lt) AS lt,
				   SUM(total_price) AS amount
			FROM sales
			WHERE branch_id = ? AND date >= ? AND date <= ?
			GROUP BY bucket
			ORDER BY bucket ASC;
		`, trunc)

		var collectRows, saleRows []row
		if err := database.DB.Raw(collectSQL, branchID, start, end).Scan(&collectRows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Beklenmeyen sunucu hatası"))
		}
		if err := database.DB.Raw(saleSQL, branchID, start, end).Scan(&saleRows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, i18n.T(c, "Beklenmeyen sunucu hatası"))
		}

		type bucketAgg struct {
			Bucket       time.Time
			CollectedLt  float64
			SoldLt       float64
			CollectedTRY float64
			SoldTRY      float64
		}

		buckets := make(map[time.Time]*bucketAgg)
		getAgg := func(t time.Time) *bucketAgg {
			agg, ok := buckets[t]
			if !ok {
				agg = &bucketAgg{Bucket: t}
				buckets[t] = agg
			}
			return agg
		}

		for _, r := range collectRows {
			agg := getAgg(r.Bucket)
			agg.CollectedLt += r.Lt
			agg.CollectedTRY += r.Amount
		}
		for _, r := range saleRows {
			agg := getAgg(r.Bucket)
			agg.SoldLt += r.Lt
			agg.SoldTRY += r.Amount
		}

		ordered := make([]bucketAgg, 0, len(buckets))
		for _, v := range buckets {
			ordered = append(ordered, *v)
		}
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Bucket.Before(ordered[j].Bucket)
		})

		points := make([]MilkChartPoint, 0, len(ordered))
		grand := MilkChartGrandTotals{}

		for _, b := range ordered {
			points = append(points, MilkChartPoint{
				Label:        b.Bucket.Format("2006-01-02"),
				CollectedLt:  b.CollectedLt,
				SoldLt:       b.SoldLt,
				CollectedTRY: b.CollectedTRY,
				SoldTRY:      b.SoldTRY,
			})
			grand.CollectedLt += b.CollectedLt
			grand.SoldLt += b.SoldLt
			grand.CollectedTRY += b.CollectedTRY
			grand.SoldTRY += b.SoldTRY
		}

		return c.JSON(MilkChartResponse{
			BranchID:    branchID,
			Period:      period,
			From:        start.Format("2006-01-02"),
			To:          end.Format("2006-01-02"),
			Points:      points,
			GrandTotals: grand,
		})
	}
}
