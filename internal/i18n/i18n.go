package i18n

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/language"
)

const CtxLocaleKey = "locale"

// Desteklenen diller. İlk eleman varsayılan (eşleşme olmazsa Türkçe döner).
var supported = []language.Tag{
	language.Turkish,
	language.English,
}

var matcher = language.NewMatcher(supported)

// Katalog: Türkçe kaynak metin -> İngilizce karşılık.
// Handler'lar Türkçe metinle çağırır, katalogda olmayan metin olduğu gibi döner.
var english = map[string]string{
	"Geçersiz istek gövdesi":              "Invalid request body",
	"Geçersiz veri gönderildi":            "Invalid data submitted",
	"Beklenmeyen sunucu hatası":           "Unexpected server error",
	"Email veya şifre hatalı":             "Invalid email or password",
	"Token oluşturulamadı":                "Could not create token",
	"Authorization header eksik":          "Missing Authorization header",
	"Authorization formatı 'Bearer <token>' olmalı": "Authorization format must be 'Bearer <token>'",
	"Geçersiz veya süresi dolmuş token":   "Invalid or expired token",
	"Token çözümlenemedi":                 "Could not parse token",
	"Rol bilgisi alınamadı":               "Could not resolve role",
	"Bu işlem için yetkiniz yok":          "You are not allowed to perform this action",
	"Şube bilgisi bulunamadı":             "Branch information not found",
	"Kullanıcı bilgisi alınamadı":         "Could not resolve user",
	"Kullanıcı bulunamadı":                "User not found",
	"branch_id zorunlu":                   "branch_id is required",
	"branch_id geçersiz":                  "branch_id is invalid",
	"Şube bulunamadı":                     "Branch not found",
	"Şube adı boş olamaz":                 "Branch name cannot be empty",
	"Şube oluşturulamadı":                 "Could not create branch",
	"Şubeler listelenemedi":               "Could not list branches",
	"Şube güncellenemedi":                 "Could not update branch",
	"Şube silinemedi":                     "Could not delete branch",
	"Üretici bulunamadı":                  "Farmer not found",
	"Üretici kodu ve adı zorunlu":         "Farmer code and name are required",
	"Bu üretici kodu zaten kayıtlı":       "This farmer code is already registered",
	"Üretici oluşturulamadı":              "Could not create farmer",
	"Üreticiler listelenemedi":            "Could not list farmers",
	"Üretici güncellenemedi":              "Could not update farmer",
	"Üretici silinemedi":                  "Could not delete farmer",
	"Müşteri bulunamadı":                  "Customer not found",
	"Müşteri adı boş olamaz":              "Customer name cannot be empty",
	"Müşteri oluşturulamadı":              "Could not create customer",
	"Müşteriler listelenemedi":            "Could not list customers",
	"Müşteri güncellenemedi":              "Could not update customer",
	"Müşteri silinemedi":                  "Could not delete customer",
	"Personel bulunamadı":                 "Employee not found",
	"Personel adı boş olamaz":             "Employee name cannot be empty",
	"Personel oluşturulamadı":             "Could not create employee",
	"Personel listelenemedi":              "Could not list employees",
	"Personel güncellenemedi":             "Could not update employee",
	"Personel silinemedi":                 "Could not delete employee",
	"Vardiya bulunamadı":                  "Shift not found",
	"Vardiya adı boş olamaz":              "Shift name cannot be empty",
	"Vardiya oluşturulamadı":              "Could not create shift",
	"Vardiyalar listelenemedi":            "Could not list shifts",
	"Vardiya güncellenemedi":              "Could not update shift",
	"Vardiya silinemedi":                  "Could not delete shift",
	"Toplama kaydı bulunamadı":            "Collection record not found",
	"Toplama kaydı oluşturulamadı":        "Could not create collection record",
	"Toplama kayıtları listelenemedi":     "Could not list collection records",
	"Toplama kaydı güncellenemedi":        "Could not update collection record",
	"Toplama kaydı silinemedi":            "Could not delete collection record",
	"Miktar 0'dan büyük olmalı":           "Quantity must be greater than 0",
	"Birim fiyat 0'dan büyük olmalı":      "Unit price must be greater than 0",
	"Tutar 0'dan büyük olmalı":            "Amount must be greater than 0",
	"Tarih formatı geçersiz (YYYY-AA-GG)": "Invalid date format (YYYY-MM-DD)",
	"Satış kaydı bulunamadı":              "Sale record not found",
	"Satış kaydı oluşturulamadı":          "Could not create sale record",
	"Satış kayıtları listelenemedi":       "Could not list sale records",
	"Satış kaydı güncellenemedi":          "Could not update sale record",
	"Satış kaydı silinemedi":              "Could not delete sale record",
	"Ödeme kaydı bulunamadı":              "Payment record not found",
	"Ödeme oluşturulamadı":                "Could not create payment",
	"Ödemeler listelenemedi":              "Could not list payments",
	"Ödeme silinemedi":                    "Could not delete payment",
	"Rapor oluşturulamadı":                "Could not generate report",
	"Rapor verileri alınamadı":            "Could not fetch report data",
	"İsim, email ve şifre zorunlu":        "Name, email and password are required",
	"Bu email zaten kayıtlı":              "This email is already registered",
	"Şifre hashlenemedi":                  "Could not hash password",
	"Şube admini oluşturulamadı":          "Could not create branch admin",
	"Adminler listelenemedi":              "Could not list admins",
	"Loglar listelenemedi":                "Could not list logs",
	"Geri alma başarısız":                 "Undo failed",
	"İşlem başarıyla geri alındı":         "Operation undone successfully",
	"Kullanıcı adı veya şifre hatalı":     "Invalid username or password",
}

// Middleware: Accept-Language başlığını çözer ve seçilen dili context'e koyar.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tag, _ := language.MatchStrings(matcher, c.Get("Accept-Language"))
		c.Locals(CtxLocaleKey, tag)
		return c.Next()
	}
}

// T: Mesajı istek diline çevirir. Dil Türkçe ise (veya çeviri yoksa) kaynak metin döner.
func T(c *fiber.Ctx, msg string) string {
	tag, ok := c.Locals(CtxLocaleKey).(language.Tag)
	if !ok {
		return msg
	}
	return Translate(tag, msg)
}

func Translate(tag language.Tag, msg string) string {
	base, _ := tag.Base()
	if base.String() == "en" {
		if tr, ok := english[msg]; ok {
			return tr
		}
	}
	return msg
}
