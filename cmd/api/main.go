package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/clinica-api/internal/application/auth"
	"github.com/tu-usuario/clinica-api/internal/application/billing"
	"github.com/tu-usuario/clinica-api/internal/application/stats"
	infrapdf "github.com/tu-usuario/clinica-api/internal/infrastructure/pdf"
	"github.com/tu-usuario/clinica-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/clinica-api/internal/interfaces/http"
	"github.com/tu-usuario/clinica-api/pkg/clock"
	"github.com/tu-usuario/clinica-api/pkg/config"
	"github.com/tu-usuario/clinica-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	clk := clock.System()
	clinic := billing.ClinicInfo{
		Name:    cfg.Clinic.Name,
		TaxID:   cfg.Clinic.TaxID,
		Address: cfg.Clinic.Address,
		Phone:   cfg.Clinic.Phone,
		Email:   cfg.Clinic.Email,
	}

	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, invoiceRepo, paymentRepo, serviceRepo, patientRepo, userRepo, clk,
	)
	paymentUC := billing.NewPaymentUseCase(txRunner, invoiceRepo, paymentRepo, userRepo, clk)
	serviceUC := billing.NewServiceUseCase(serviceRepo, clk)
	statsUC := stats.NewStatsUseCase(statsRepo, clk)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(invoiceRepo, patientRepo, pdfGenerator, clinic)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		InvoiceUC: invoiceUC,
		PaymentUC: paymentUC,
		ServiceUC: serviceUC,
		PDFUC:     pdfUC,
		StatsUC:   statsUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("servidor detenido")
}
