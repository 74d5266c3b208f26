package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []ReportRow {
	return []ReportRow{
		{Date: "2026-08-01", Code: "U-001", Party: "Mehmet Çelik", Shift: "sabah", Product: "çiğ süt", Quantity: 42.5, UnitPrice: 18.0, Total: 765.0},
		{Date: "2026-08-01", Code: "U-002", Party: "Ayşe Yıldız", Shift: "akşam", Product: "çiğ süt", Quantity: 30.0, UnitPrice: 18.0, Total: 540.0},
	}
}

func TestBuildExcel(t *testing.T) {
	buf, err := BuildExcel("Süt Toplama Raporu", sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)

	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Süt Toplama Raporu", title)

	// Tablo başlıkları 2. satırda
	h1, _ := f.GetCellValue(sheet, "A2")
	h6, _ := f.GetCellValue(sheet, "F2")
	assert.Equal(t, "Tarih", h1)
	assert.Equal(t, "Miktar (lt)", h6)

	// İlk veri satırı
	code, _ := f.GetCellValue(sheet, "B3")
	party, _ := f.GetCellValue(sheet, "C3")
	assert.Equal(t, "U-001", code)
	assert.Equal(t, "Mehmet Çelik", party)

	// Toplam satırı: 2 veri satırından sonra 5. satır
	label, _ := f.GetCellValue(sheet, "A5")
	totalLt, _ := f.GetCellValue(sheet, "F5")
	totalAmount, _ := f.GetCellValue(sheet, "H5")
	assert.Equal(t, "TOPLAM", label)
	assert.Equal(t, "72.5", totalLt)
	assert.Equal(t, "1305", totalAmount)
}

func TestBuildExcelEmpty(t *testing.T) {
	buf, err := BuildExcel("Satış Raporu", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	label, _ := f.GetCellValue(sheet, "A3")
	assert.Equal(t, "TOPLAM", label)
}
