// Package kapture предоставляет маршруты для основного приложения.
package kapture

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/dylnbk/kapture/internal/http/handlers/auth/login"
	"github.com/dylnbk/kapture/internal/http/handlers/auth/register"
	billingcheckout "github.com/dylnbk/kapture/internal/http/handlers/billing/checkout"
	billingwebhook "github.com/dylnbk/kapture/internal/http/handlers/billing/webhook"
	"github.com/dylnbk/kapture/internal/http/handlers/health"
	ideasgenerate "github.com/dylnbk/kapture/internal/http/handlers/ideas/generate"
	ideaslist "github.com/dylnbk/kapture/internal/http/handlers/ideas/list"
	mediacomplete "github.com/dylnbk/kapture/internal/http/handlers/media/complete"
	mediadownload "github.com/dylnbk/kapture/internal/http/handlers/media/download"
	medialist "github.com/dylnbk/kapture/internal/http/handlers/media/list"
	mediaorganize "github.com/dylnbk/kapture/internal/http/handlers/media/organize"
	trendslist "github.com/dylnbk/kapture/internal/http/handlers/trends/list"
	trendsscrape "github.com/dylnbk/kapture/internal/http/handlers/trends/scrape"
	usagesummary "github.com/dylnbk/kapture/internal/http/handlers/usage/summary"
	"github.com/dylnbk/kapture/internal/http/middlewarectx"
	authservice "github.com/dylnbk/kapture/internal/services/auth"
	billingservice "github.com/dylnbk/kapture/internal/services/billing"
	"github.com/dylnbk/kapture/internal/services/entitlement"
	ideasservice "github.com/dylnbk/kapture/internal/services/ideas"
	mediaservice "github.com/dylnbk/kapture/internal/services/media"
	trendsservice "github.com/dylnbk/kapture/internal/services/trends"
	"github.com/dylnbk/kapture/internal/storage"
)

// Services объединяет бизнес-сервисы, которые нужны маршрутам.
type Services struct {
	Auth        *authservice.AuthService
	Trends      *trendsservice.TrendsService
	Media       *mediaservice.MediaService
	Ideas       *ideasservice.IdeasService
	Entitlement *entitlement.Service
	Billing     *billingservice.BillingService
	Storage     *storage.Storage
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services, billingWebhookKey, scrapeWebhookKey string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, s.Storage).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/trends/scrape", trendsscrape.New(logger, s.Trends).ServeHTTP)
			r.Get("/trends", trendslist.New(logger, s.Trends).ServeHTTP)

			r.Post("/media/download", mediadownload.New(logger, s.Media).ServeHTTP)
			r.Get("/media", medialist.New(logger, s.Media).ServeHTTP)
			r.Post("/media/organize", mediaorganize.New(logger, s.Media).ServeHTTP)

			r.Post("/ideas/generate", ideasgenerate.New(logger, s.Ideas).ServeHTTP)
			r.Get("/ideas", ideaslist.New(logger, s.Ideas).ServeHTTP)

			r.Get("/usage", usagesummary.New(logger, s.Entitlement).ServeHTTP)

			r.Post("/billing/checkout", billingcheckout.New(logger, s.Billing).ServeHTTP)
		})

		// Webhook endpoints (без аутентификации, подпись проверяется внутри)
		r.Post("/billing/webhook", billingwebhook.New(logger, s.Billing, billingWebhookKey).ServeHTTP)
		r.Post("/media/webhook", mediacomplete.New(logger, s.Media, scrapeWebhookKey).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
