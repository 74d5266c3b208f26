package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var excelHeaders = []string{"Tarih", "Kod", "Ad", "Vardiya", "Ürün", "Miktar (lt)", "Birim Fiyat", "Tutar"}

// BuildExcel: Rapor satırlarını tek sayfalık bir xlsx dosyasına yazar.
// Son satırda toplamlar bulunur.
func BuildExcel(title string, rows []ReportRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	// Başlık
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.MergeCell(sheet, "A1", "H1"); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		f.SetCellStyle(sheet, "A1", "H1", titleStyle)
	}

	// Tablo başlıkları
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range excelHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheet, cell, h)
		if headerStyle != 0 {
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
	}

	// Veri satırları
	for i, r := range rows {
		rowIdx := i + 3
		values := []any{r.Date, r.Code, r.Party, r.Shift, r.Product, r.Quantity, r.UnitPrice, r.Total}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowIdx)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// Toplamlar
	totalLt, totalAmount := sumRows(rows)
	totalRow := len(rows) + 3
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "TOPLAM")
	f.SetCellValue(sheet, fmt.Sprintf("F%d", totalRow), totalLt)
	f.SetCellValue(sheet, fmt.Sprintf("H%d", totalRow), totalAmount)

	// Kolon genişlikleri
	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "C", "C", 25)
	f.SetColWidth(sheet, "E", "E", 15)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}
