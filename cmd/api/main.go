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

	appanalytics "github.com/jhoicas/garantias-api/internal/application/analytics"
	"github.com/jhoicas/garantias-api/internal/application/inventory"
	"github.com/jhoicas/garantias-api/internal/application/returns"
	"github.com/jhoicas/garantias-api/internal/infrastructure/cache"
	"github.com/jhoicas/garantias-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/garantias-api/internal/interfaces/http"
	"github.com/jhoicas/garantias-api/pkg/config"
	"github.com/jhoicas/garantias-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Component("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("preparar migraciones")
		}
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		if err := migrator.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ledgers := postgres.NewLedgers(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	branchRepo := postgres.NewBranchRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Returns.TxMaxRetries, log.Component("tx"))
	recorder := inventory.NewMovementRecorder(nil)

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, recorder, branchRepo)
	stockHistoryUC := inventory.NewStockHistoryUseCase(ledgers.Movements)
	returnsSvc := returns.NewService(txRunner, recorder, ledgers, saleRepo, branchRepo, returns.Policy{
		WarrantyDays:         cfg.Returns.WarrantyDays,
		BlockExpiredWarranty: cfg.Returns.BlockExpiredWarranty,
		TxTimeout:            cfg.Returns.TxTimeout(),
	}, log.Component("returns"))

	// Caché de analítica: Redis si está configurado y responde; si no, sin caché.
	var reportCache appanalytics.ReportCache = cache.NoopReportCache{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisReportCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := redisCache.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, analítica sin caché")
			_ = redisCache.Close()
		} else {
			reportCache = redisCache
			defer redisCache.Close()
		}
		cancel()
	}
	failureUC := appanalytics.NewFailureUseCase(
		postgres.NewFailureAnalyticsRepository(pool), reportCache, cfg.Analytics.CacheTTL(), log.Component("analytics"),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Garantías API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Returns:          returnsSvc,
		RegisterMovement: registerMovementUC,
		StockHistory:     stockHistoryUC,
		FailureAnalytics: failureUC,
		JWTSecret:        cfg.JWT.Secret,
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
