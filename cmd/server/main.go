package main

import (
	"log"
	"strings"

	"mandira-backend/internal/admin"
	"mandira-backend/internal/audit"
	"mandira-backend/internal/auth"
	"mandira-backend/internal/collection"
	"mandira-backend/internal/config"
	"mandira-backend/internal/dashboard"
	"mandira-backend/internal/database"
	"mandira-backend/internal/i18n"
	"mandira-backend/internal/models"
	"mandira-backend/internal/payment"
	"mandira-backend/internal/report"
	"mandira-backend/internal/sale"
	"mandira-backend/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/joho/godotenv"
)

func main() {
	// .env varsa yükle, yoksa ortam değişkenleri yeterli
	_ = godotenv.Load()

	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": i18n.T(c, "Beklenmeyen sunucu hatası"),
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(i18n.Middleware())

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Sağlık kontrolü
	app.Get("/health", web.HealthHandler())

	// Oturum tabanlı basit HTML arayüzü
	store := session.New(session.Config{
		CookieHTTPOnly: true,
	})
	app.Get("/simple-login", web.SimpleLoginPageHandler())
	app.Post("/login", web.LoginFormHandler(store))
	app.Get("/logout", web.LogoutHandler(store))
	app.Get("/dashboard", web.SessionRequired(store), web.DashboardPageHandler(store))

	api := app.Group("/api")

	// Public
	api.Get("/test-db", web.TestDBHandler())
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Şube yönetimi
	adminRoutes.Post("/branches", admin.CreateBranchHandler())
	adminRoutes.Get("/branches", admin.ListBranchesHandler())
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler())
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler())
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler())
	adminRoutes.Post("/branches/:id/admin", admin.CreateBranchAdminHandler())

	// Personel yönetimi
	adminRoutes.Post("/employees", admin.CreateEmployeeHandler())
	adminRoutes.Get("/employees", admin.ListEmployeesHandler())
	adminRoutes.Put("/employees/:id", admin.UpdateEmployeeHandler())
	adminRoutes.Delete("/employees/:id", admin.DeleteEmployeeHandler())

	// Üretici yönetimi
	adminRoutes.Post("/farmers", admin.CreateFarmerHandler())
	adminRoutes.Get("/farmers", admin.ListFarmersHandler())
	adminRoutes.Get("/farmers/:id", admin.GetFarmerHandler())
	adminRoutes.Put("/farmers/:id", admin.UpdateFarmerHandler())
	adminRoutes.Delete("/farmers/:id", admin.DeleteFarmerHandler())

	// Müşteri yönetimi
	adminRoutes.Post("/customers", admin.CreateCustomerHandler())
	adminRoutes.Get("/customers", admin.ListCustomersHandler())
	adminRoutes.Put("/customers/:id", admin.UpdateCustomerHandler())
	adminRoutes.Delete("/customers/:id", admin.DeleteCustomerHandler())

	// Vardiya yönetimi
	adminRoutes.Post("/shifts", admin.CreateShiftHandler())
	adminRoutes.Get("/shifts", admin.ListShiftsHandler())
	adminRoutes.Put("/shifts/:id", admin.UpdateShiftHandler())
	adminRoutes.Delete("/shifts/:id", admin.DeleteShiftHandler())

	// Ortak (auth gerektiren) route'lar

	// Süt toplama kayıtları
	protected.Post("/milk-collections", collection.CreateMilkCollectionHandler())
	protected.Get("/milk-collections", collection.ListMilkCollectionsHandler())
	protected.Get("/milk-collections/:id", collection.GetMilkCollectionHandler())
	protected.Put("/milk-collections/:id", collection.UpdateMilkCollectionHandler())
	protected.Delete("/milk-collections/:id", collection.DeleteMilkCollectionHandler())

	// Satışlar
	protected.Post("/sales", sale.CreateSaleHandler())
	protected.Get("/sales", sale.ListSalesHandler())
	protected.Get("/sales/:id", sale.GetSaleHandler())
	protected.Put("/sales/:id", sale.UpdateSaleHandler())
	protected.Delete("/sales/:id", sale.DeleteSaleHandler())

	// Üretici ödemeleri
	protected.Post("/farmer-payments", payment.CreateFarmerPaymentHandler())
	protected.Get("/farmer-payments", payment.ListFarmerPaymentsHandler())
	protected.Get("/farmer-payments/balance", payment.GetFarmerBalanceHandler())
	protected.Delete("/farmer-payments/:id", payment.DeleteFarmerPaymentHandler())

	// Müşteri tahsilatları
	protected.Post("/customer-payments", payment.CreateCustomerPaymentHandler())
	protected.Get("/customer-payments", payment.ListCustomerPaymentsHandler())
	protected.Get("/customer-payments/balance", payment.GetCustomerBalanceHandler())
	protected.Delete("/customer-payments/:id", payment.DeleteCustomerPaymentHandler())

	// Dashboard
	protected.Get("/dashboard/milk-chart", dashboard.MilkChartHandler())

	// Raporlar
	protected.Get("/reports/collections.xlsx", report.CollectionsExcelHandler())
	protected.Get("/reports/sales.xlsx", report.SalesExcelHandler())
	protected.Get("/reports/collections.pdf", report.CollectionsPDFHandler())
	protected.Get("/reports/sales.pdf", report.SalesPDFHandler())
	protected.Get("/reports/farmer-statement.pdf", report.FarmerStatementPDFHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
