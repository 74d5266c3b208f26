package database

import (
	"log"

	"mandira-backend/internal/config"
	"mandira-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Varsayılan admin bilgileri. İlk kurulumda super admin yoksa oluşturulur,
// giriş yaptıktan sonra şifre değiştirilmeli.
const (
	DefaultAdminEmail    = "admin@mandira.local"
	DefaultAdminName     = "admin"
	DefaultAdminPassword = "admin123"
)

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// FarmerPayment migration: receipt_no eklendi (AutoMigrate'ten ÖNCE).
	// Eski kayıtlarda receipt_no NULL kalırsa uniqueIndex migration'ı patlıyor,
	// önce id'den türetilmiş bir değer yazılır.
	for _, table := range []string{"farmer_payments", "customer_payments"} {
		if DB.Migrator().HasTable(table) {
			var nullCount int64
			DB.Raw("SELECT COUNT(*) FROM " + table + " WHERE receipt_no IS NULL OR receipt_no = ''").Scan(&nullCount)
			if nullCount > 0 {
				log.Printf("%s tablosunda %d adet makbuzsuz kayıt bulundu, dolduruluyor...", table, nullCount)
				DB.Exec("UPDATE " + table + " SET receipt_no = 'eski-' || id WHERE receipt_no IS NULL OR receipt_no = ''")
			}
		}
	}

	err = DB.AutoMigrate(
		&models.Branch{},
		&models.User{},
		&models.Employee{},
		&models.Farmer{},
		&models.Customer{},
		&models.Shift{},
		&models.MilkCollection{},
		&models.Sale{},
		&models.FarmerPayment{},
		&models.CustomerPayment{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	seedDefaults(cfg)

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// seedDefaults: Boş veritabanında uygulamanın çalışabilmesi için
// varsayılan vardiyaları ve ilk super admin'i oluşturur.
func seedDefaults(cfg *config.Config) {
	var shiftCount int64
	DB.Model(&models.Shift{}).Count(&shiftCount)
	if shiftCount == 0 {
		shifts := []models.Shift{
			{Name: "sabah", StartTime: "05:00", EndTime: "12:00"},
			{Name: "akşam", StartTime: "16:00", EndTime: "21:00"},
		}
		if err := DB.Create(&shifts).Error; err != nil {
			log.Printf("Varsayılan vardiyalar oluşturulamadı: %v", err)
		} else {
			log.Println("Varsayılan vardiyalar oluşturuldu (sabah/akşam)")
		}
	}

	var adminCount int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&adminCount)
	if adminCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Varsayılan admin şifresi hashlenemedi: %v", err)
			return
		}
		admin := models.User{
			Name:         DefaultAdminName,
			Email:        DefaultAdminEmail,
			PasswordHash: string(hash),
			Role:         models.RoleSuperAdmin,
		}
		if err := DB.Create(&admin).Error; err != nil {
			log.Printf("Varsayılan admin oluşturulamadı: %v", err)
			return
		}
		log.Printf("Varsayılan super admin oluşturuldu: %s (şifreyi değiştirmeyi unutma!)", DefaultAdminEmail)
		if cfg.AppEnv == "production" {
			log.Println("[WARN] Production ortamında varsayılan admin şifresi kullanılıyor!")
		}
	}
}
