package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Çekirdek PDF fontları WinAnsi (cp1252) kodludur ve harici map dosyası
// istemez. cp1252'de karşılığı olmayan Türkçeye özgü harfler ASCII'ye
// indirgenir (ğ, ı, ş); ö/ü/ç gibi harfler cp1252'de zaten var.
var turkishFold = strings.NewReplacer(
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ş", "s", "Ş", "S",
)

var winAnsiEncoder = encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())

func winAnsi(s string) string {
	out, err := winAnsiEncoder.String(turkishFold.Replace(s))
	if err != nil {
		return s
	}
	return out
}

// BuildPDF: Rapor satırlarını A4 tablo olarak PDF'e yazar.
func BuildPDF(title string, from, to time.Time, rows []ReportRow) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := winAnsi

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)

	// Rapor başlığı
	pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Tarih aralığı: %s - %s",
		from.Format("2006-01-02"), to.Format("2006-01-02"))), "", 1, "L", false, 0, "")

	totalLt, totalAmount := sumRows(rows)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Toplam miktar: %.1f lt", totalLt)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Toplam tutar: %.2f TL", totalAmount)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// Tablo başlığı
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(22, 8, tr("Tarih"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(15, 8, tr("Kod"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(48, 8, tr("Ad"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, tr("Vardiya"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, tr("Miktar (lt)"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 8, tr("Birim Fiyat"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, tr("Tutar"), "1", 1, "C", false, 0, "")

	// Satırlar
	pdf.SetFont("Arial", "", 10)
	for _, r := range rows {
		pdf.CellFormat(22, 7, r.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 7, tr(r.Code), "1", 0, "C", false, 0, "")
		pdf.CellFormat(48, 7, tr(r.Party), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, tr(r.Shift), "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.1f", r.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(28, 7, fmt.Sprintf("%.2f", r.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", r.Total), "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StatementLine: Üretici hesap ekstresindeki tek hareket
type StatementLine struct {
	Date        string
	Description string
	Debit       float64 // kooperatifin borçlandığı (süt alımı)
	Credit      float64 // üreticiye ödenen
}

// BuildFarmerStatementPDF: Üreticinin aylık hesap ekstresi
func BuildFarmerStatementPDF(farmerName, farmerCode string, year, month int, lines []StatementLine) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := winAnsi

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr("Üretici Hesap Ekstresi"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Üretici: %s (%s)", farmerName, farmerCode)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Dönem: %04d-%02d", year, month)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(25, 8, tr("Tarih"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(85, 8, tr("Açıklama"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, tr("Süt Bedeli"), "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, tr("Ödenen"), "1", 1, "C", false, 0, "")

	var totalDebit, totalCredit float64
	pdf.SetFont("Arial", "", 10)
	for _, l := range lines {
		pdf.CellFormat(25, 7, l.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(85, 7, tr(l.Description), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", l.Debit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, fmt.Sprintf("%.2f", l.Credit), "1", 1, "R", false, 0, "")
		totalDebit += l.Debit
		totalCredit += l.Credit
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(110, 8, tr("TOPLAM"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", totalDebit), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, fmt.Sprintf("%.2f", totalCredit), "1", 1, "R", false, 0, "")

	pdf.Ln(5)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Dönem bakiyesi: %.2f TL", totalDebit-totalCredit)), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
