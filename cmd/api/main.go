package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/aleburgosdev/mi-inventario/internal/application/costing"
	"github.com/aleburgosdev/mi-inventario/internal/application/forecast"
	"github.com/aleburgosdev/mi-inventario/internal/application/orders"
	"github.com/aleburgosdev/mi-inventario/internal/application/products"
	"github.com/aleburgosdev/mi-inventario/internal/application/reconcile"
	"github.com/aleburgosdev/mi-inventario/internal/application/reports"
	"github.com/aleburgosdev/mi-inventario/internal/application/sales"
	"github.com/aleburgosdev/mi-inventario/internal/infrastructure/backup"
	"github.com/aleburgosdev/mi-inventario/internal/infrastructure/catalog"
	"github.com/aleburgosdev/mi-inventario/internal/infrastructure/remote"
	httpRouter "github.com/aleburgosdev/mi-inventario/internal/interfaces/http"
	"github.com/aleburgosdev/mi-inventario/internal/state"
	syncchan "github.com/aleburgosdev/mi-inventario/internal/sync"
	"github.com/aleburgosdev/mi-inventario/pkg/config"
	"github.com/aleburgosdev/mi-inventario/pkg/logger"
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
		Str("remoto", cfg.Remote.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bk, err := backup.NewSQLite(cfg.Backup.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Backup.Path).Msg("abrir respaldo local")
	}
	defer bk.Close()

	var remoteStore syncchan.RemoteStore
	switch cfg.Remote.Driver {
	case "firebase":
		remoteStore, err = remote.NewFirebaseStore(ctx, remote.FirebaseOptions{
			DatabaseURL:     cfg.Remote.FirebaseDatabaseURL,
			CredentialsFile: cfg.Remote.FirebaseCredentialsFile,
			Path:            cfg.Remote.FirebasePath,
			PollEvery:       time.Duration(cfg.Remote.FirebasePollSeconds) * time.Second,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Firebase Realtime Database")
		}
	default:
		rs := remote.NewRedisStore(remote.RedisOptions{
			Addr:     cfg.Remote.RedisAddr,
			Password: cfg.Remote.RedisPassword,
			DB:       cfg.Remote.RedisDB,
			Key:      cfg.Remote.RedisKey,
			Channel:  cfg.Remote.RedisChannel,
		}, log)
		defer rs.Close()
		remoteStore = rs
	}

	store := state.New()
	guard := reconcile.New()
	channel := syncchan.New(store, guard, remoteStore, bk, log,
		time.Duration(cfg.Watchdog.Seconds)*time.Second)

	notifier := catalog.NewWebhook(cfg.Catalog.WebhookURL, log)

	forecastUC := forecast.NewUseCase(store)
	channel.OnReplace(forecastUC.Invalidate)
	channel.Start(ctx)

	costingUC := costing.NewUseCase(store)
	reportsUC := reports.NewUseCase(store, forecastUC)
	assistant := reports.NewAssistant(reportsUC)
	productsUC := products.NewUseCase(store, channel, notifier, log)
	salesUC := sales.NewUseCase(store, channel, notifier, forecastUC, log)
	ordersUC := orders.NewUseCase(store, channel, notifier, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "degraded": channel.Degraded()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Products:  httpRouter.NewProductHandler(productsUC),
		Sales:     httpRouter.NewSaleHandler(salesUC),
		Orders:    httpRouter.NewOrderHandler(ordersUC),
		Analytics: httpRouter.NewAnalyticsHandler(costingUC, forecastUC, reportsUC, assistant),
		Sync:      httpRouter.NewSyncHandler(channel, bk, store),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	// Esperar escrituras remotas en vuelo antes de soltar el respaldo.
	channel.Drain()

	log.Info().Msg("aplicación detenida")
}
