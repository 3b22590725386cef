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
	"github.com/jhoicas/Creditos-api/docs"
	"github.com/jhoicas/Creditos-api/internal/application/credit"
	"github.com/jhoicas/Creditos-api/internal/application/inventory"
	"github.com/jhoicas/Creditos-api/internal/application/payment"
	infrapdf "github.com/jhoicas/Creditos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Creditos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Creditos-api/internal/interfaces/http"
	"github.com/jhoicas/Creditos-api/internal/scheduler"
	"github.com/jhoicas/Creditos-api/pkg/config"
	"github.com/jhoicas/Creditos-api/pkg/logger"
	"github.com/swaggo/swag"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
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

	if cfg.DB.RunMigrations {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	creditRepo := postgres.NewCreditRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	stockRepo := postgres.NewVendorStockRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	vendorRepo := postgres.NewVendorRepository(pool)
	txManager := postgres.NewTxManager(pool)

	registry := inventory.NewMovementTypeRegistry(log.Component("tipos_movimiento"))
	if err := registry.SeedBase(ctx, txManager); err != nil {
		log.Fatal().Err(err).Msg("sembrar tipos de movimiento")
	}
	coordinator := inventory.NewCoordinator(registry, log.Component("inventario"))

	ledgerUC := credit.NewLedgerUseCase(
		txManager, creditRepo, clientRepo, vendorRepo, productRepo,
		coordinator, log.Component("creditos"),
	)
	allocatorUC := payment.NewAllocatorUseCase(
		txManager, creditRepo, paymentRepo, clientRepo, log.Component("abonos"),
	)
	// PDF: comprobante de pago con la distribución por producto
	receiptUC := payment.NewReceiptUseCase(
		paymentRepo, creditRepo, clientRepo, productRepo,
		infrapdf.NewReceiptGenerator(cfg.App.Name),
	)
	stockUC := inventory.NewStockUseCase(
		txManager, coordinator, vendorRepo, productRepo, clientRepo,
		stockRepo, movementRepo, log.Component("inventario"),
	)

	sched := scheduler.New(cfg.Ledger.OverdueCron, ledgerUC, log.Component("scheduler"))
	if _, err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}

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
		Title:    docs.SwaggerInfo.Title,
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Type("json")
		return c.SendString(doc)
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledgerUC,
		Allocator: allocatorUC,
		Receipts:  receiptUC,
		Stock:     stockUC,
		Vendors:   vendorRepo,
		JWTSecret: cfg.JWT.Secret,
		Logger:    log.Component("http"),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	sched.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}
