// Package kapture собирает и запускает основной HTTP-сервис:
// хранилище, кеш, очередь уведомлений, клиенты внешних поставщиков,
// бизнес-сервисы и маршруты.
package kapture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/dylnbk/kapture/internal/aiprovider"
	"github.com/dylnbk/kapture/internal/billingprovider"
	"github.com/dylnbk/kapture/internal/cache"
	"github.com/dylnbk/kapture/internal/config"
	"github.com/dylnbk/kapture/internal/lib/jwt"
	"github.com/dylnbk/kapture/internal/lib/rabbitmq"
	"github.com/dylnbk/kapture/internal/metrics"
	"github.com/dylnbk/kapture/internal/migrations"
	"github.com/dylnbk/kapture/internal/scrapeprovider"
	authservice "github.com/dylnbk/kapture/internal/services/auth"
	billingservice "github.com/dylnbk/kapture/internal/services/billing"
	"github.com/dylnbk/kapture/internal/services/entitlement"
	ideasservice "github.com/dylnbk/kapture/internal/services/ideas"
	mediaservice "github.com/dylnbk/kapture/internal/services/media"
	"github.com/dylnbk/kapture/internal/services/notifier"
	trendsservice "github.com/dylnbk/kapture/internal/services/trends"
	"github.com/dylnbk/kapture/internal/storage"

	"github.com/go-chi/chi"
)

// App представляет собранный HTTP-сервис Kapture.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New собирает приложение: подключает зависимости и строит маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitURL, 5, 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}
	ch, err := rabbitmq.SetupChannel(conn, cfg.RabbitExchange, rabbitmq.GetNotificationQueues())
	if err != nil {
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)

	alerts := notifier.New(db, ch, cfg.RabbitExchange)

	entitlementService := entitlement.New(db, db, cacheRedis, alerts, m, logger, cfg.UsageCacheTTL)

	scrapeClient := scrapeprovider.NewClient(cfg.ScrapeAPIURL, cfg.ScrapeAPIKey)
	aiClient := aiprovider.NewClient(cfg.AIAPIURL, cfg.AIAPIKey)
	billingClient := billingprovider.NewClient(cfg.BillingAPIURL, cfg.BillingAPIKey)

	trendsService := trendsservice.NewTrendsService(db, scrapeClient, entitlementService, logger, cfg.FailOpen)
	mediaService := mediaservice.NewMediaService(db, scrapeClient, entitlementService, logger, cfg.FailOpen)
	ideasService := ideasservice.NewIdeasService(db, aiClient, entitlementService, logger, cfg.FailOpen)
	billingService := billingservice.NewBillingService(db, db, billingClient, alerts, logger,
		cfg.BillingSuccessURL, cfg.BillingCancelURL)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:        authService,
		Trends:      trendsService,
		Media:       mediaService,
		Ideas:       ideasService,
		Entitlement: entitlementService,
		Billing:     billingService,
		Storage:     db,
	}, cfg.BillingWebhookKey, cfg.ScrapeWebhookKey)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и дожидается сигнала завершения.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
