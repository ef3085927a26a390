package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/luxy-checkout/internal/application/auth"
	"github.com/jhoicas/luxy-checkout/internal/application/checkout"
	"github.com/jhoicas/luxy-checkout/internal/application/connectivity"
	"github.com/jhoicas/luxy-checkout/internal/application/kiosk"
	"github.com/jhoicas/luxy-checkout/internal/application/refdata"
	"github.com/jhoicas/luxy-checkout/internal/application/session"
	"github.com/jhoicas/luxy-checkout/internal/domain/repository"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/memory"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/luxy-checkout/internal/infrastructure/pdf"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/luxy-checkout/internal/infrastructure/redis"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/remote"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/signature"
	"github.com/jhoicas/luxy-checkout/internal/infrastructure/sqlite"
	httpRouter "github.com/jhoicas/luxy-checkout/internal/interfaces/http"
	"github.com/jhoicas/luxy-checkout/pkg/config"
	"github.com/jhoicas/luxy-checkout/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("device", cfg.App.DeviceID).
		Str("store", cfg.Store.Driver).
		Msg("iniciando kiosko")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento local")
	}
	defer closeStore()

	prom := metrics.NewPrometheus(cfg.App.DeviceID)
	client := remote.NewClient(remote.Options{
		BaseURL:          cfg.Backend.URL,
		Mode:             remote.Mode(cfg.Backend.Mode),
		IncludeSignature: cfg.Backend.IncludeSignature,
	})

	state := session.NewState()
	monitor := connectivity.NewMonitor(cfg.Sync.StartOnline, client, prom, log.Component("connectivity"))
	queue := checkout.NewPendingQueue(store, log.Component("queue"))
	loader := refdata.NewLoader(
		refdata.NewCache(store, log.Component("cache")),
		client, monitor, state, state,
		log.Component("refdata"), cfg.Backend.FetchTimeout,
	)
	pipeline := checkout.NewPipeline(
		client, queue, monitor, signature.NewEncoder(), state, prom,
		log.Component("pipeline"), cfg.Backend.DeliveryTimeout,
	)
	syncer := checkout.NewSynchronizer(
		queue, client, state, prom,
		log.Component("sync"), cfg.Backend.DeliveryTimeout, cfg.Sync.RatePerSecond,
	)
	coord := kiosk.NewCoordinator(state, monitor, queue, loader, syncer, pipeline, log.Component("kiosk"))

	authUC := auth.NewAuthUseCase(cfg.JWT.PINHash, cfg.App.DeviceID, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if !authUC.Enabled() {
		log.Warn().Msg("SUPERVISOR_PIN_HASH o JWT_SECRET vacíos: rutas de supervisor deshabilitadas")
	}

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
		Title:    "Luxy Checkout API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "online": monitor.Online()})
	})
	app.Get("/metrics", adaptor.HTTPHandler(prom.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Coordinator: coord,
		Receipts:    infrapdf.NewReceiptGenerator(cfg.App.Name),
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	res := coord.Start(ctx)
	log.Info().
		Bool("from_cache", res.FromCache).
		Bool("refreshed", res.Refreshed).
		Int("pending", queue.Len(ctx)).
		Msg("kiosko listo")

	go monitor.Run(ctx, cfg.Sync.ProbeInterval)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	cancel()
	monitor.Close()
	coord.Wait()

	log.Info().Int("pending", queue.Len(shutdownCtx)).Msg("kiosko detenido")
}

// openStore abre el almacenamiento local según STORE_DRIVER; el cierre se difiere en main.
func openStore(ctx context.Context, cfg *config.Config) (repository.KVStore, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.DeviceID)
		if err != nil {
			return nil, nil, err
		}
		s := postgres.NewKVStore(pool, cfg.App.DeviceID)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	case config.StoreRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return infraredis.NewKVStore(client, cfg.App.DeviceID), func() { _ = client.Close() }, nil
	default:
		return memory.NewKVStore(), func() {}, nil
	}
}
