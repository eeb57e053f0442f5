package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-api/internal/application/auth"
	"github.com/tu-usuario/clinica-api/internal/application/billing"
	"github.com/tu-usuario/clinica-api/internal/application/stats"
	"github.com/tu-usuario/clinica-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	InvoiceUC *billing.InvoiceUseCase
	PaymentUC *billing.PaymentUseCase
	ServiceUC *billing.ServiceUseCase
	PDFUC     *billing.PDFUseCase
	StatsUC   *stats.StatsUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Facturación (requiere Bearer Token)
	billingGroup := api.Group("/billing", AuthMiddleware(deps.JWTSecret))

	// Invoices
	invoices := billingGroup.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/create", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", RequireRole(entity.RoleAdmin), invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Post("/:id/items", invoiceHandler.AddItem)
	invoices.Put("/:id/items/:itemId", invoiceHandler.UpdateItem)
	invoices.Delete("/:id/items/:itemId", invoiceHandler.RemoveItem)

	// Payments (solo creación; los pagos no se editan ni eliminan)
	payments := billingGroup.Group("/payments")
	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	payments.Post("/create", paymentHandler.Create)

	// Services (catálogo)
	services := billingGroup.Group("/services")
	serviceHandler := NewServiceHandler(deps.ServiceUC)
	services.Get("/", serviceHandler.List)
	services.Post("/create", RequireRole(entity.RoleAdmin), serviceHandler.Create)
	services.Put("/:id", RequireRole(entity.RoleAdmin), serviceHandler.Update)
	services.Delete("/:id", RequireRole(entity.RoleAdmin), serviceHandler.Delete)

	// Stats (solo admin)
	statsHandler := NewStatsHandler(deps.StatsUC)
	billingGroup.Get("/stats", RequireRole(entity.RoleAdmin), statsHandler.Get)
}
