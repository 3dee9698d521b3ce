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

	"github.com/jhoicas/stockflow-api/internal/application/auth"
	"github.com/jhoicas/stockflow-api/internal/application/report"
	"github.com/jhoicas/stockflow-api/internal/application/sales"
	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/stockflow-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stockflow-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockflow-api/internal/scheduler"
	httpRouter "github.com/jhoicas/stockflow-api/internal/interfaces/http"
	"github.com/jhoicas/stockflow-api/pkg/config"
	"github.com/jhoicas/stockflow-api/pkg/logger"
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

	// Repos sobre pool para lecturas fuera de transacción; el TxRunner arma
	// los repos transaccionales por su cuenta.
	itemRepo := postgres.NewStockItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	stockLocRepo := postgres.NewStockLocationRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Stock.LockTimeoutMS)

	movementUC := stock.NewRecordMovementUseCase(txRunner, cfg.Stock.LowStockThreshold)
	transferUC := stock.NewTransferUseCase(txRunner, movementUC)
	rolloverUC := stock.NewRolloverUseCase(txRunner)
	saleUC := sales.NewSaleUseCase(txRunner, movementUC, locationRepo, saleRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	consolidationUC := report.NewConsolidationUseCase(txRunner, pdfGenerator)
	reportingUC := report.NewReportingUseCase(movementRepo, saleRepo)

	stockItemUC := usecase.NewStockItemUseCase(itemRepo, cfg.Stock.LowStockThreshold)
	locationUC := usecase.NewLocationUseCase(locationRepo, stockLocRepo, itemRepo)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Rollover diario de apertura (quantity -> opening_quantity)
	sched := scheduler.NewScheduler(rolloverUC, cfg.Stock.RolloverCron, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("arrancar scheduler")
	}
	defer sched.Stop()

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
		Title:    "StockFlow API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockItemUC:     stockItemUC,
		LocationUC:      locationUC,
		MovementUC:      movementUC,
		TransferUC:      transferUC,
		SaleUC:          saleUC,
		ConsolidationUC: consolidationUC,
		ReportingUC:     reportingUC,
		AuthUC:          authUC,
		JWTSecret:       cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
