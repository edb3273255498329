// Package loantracker предоставляет маршруты для основного приложения.
package loantracker

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fundolabs/loan-tracker/docs"
	"github.com/fundolabs/loan-tracker/internal/http/handlers/auth/login"
	"github.com/fundolabs/loan-tracker/internal/http/handlers/auth/register"
	"github.com/fundolabs/loan-tracker/internal/http/handlers/loan/create"
	"github.com/fundolabs/loan-tracker/internal/http/handlers/loan/health"
	"github.com/fundolabs/loan-tracker/internal/http/handlers/loan/list"
	"github.com/fundolabs/loan-tracker/internal/http/handlers/loan/payment"
	"github.com/fundolabs/loan-tracker/internal/http/handlers/loan/read"
	"github.com/fundolabs/loan-tracker/internal/http/middlewarectx"
	authservice "github.com/fundolabs/loan-tracker/internal/services/auth"
	loanservice "github.com/fundolabs/loan-tracker/internal/services/loan"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, loanService *loanservice.LoanService, authService *authservice.AuthService, staticPath string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, 50, 100))
			r.Post("/loans", create.New(logger, loanService).ServeHTTP)
			r.Get("/loans", list.New(logger, loanService).ServeHTTP)
			r.Get("/loans/{id}", read.New(logger, loanService).ServeHTTP)
			r.Post("/loans/{id}/payment", payment.New(logger, loanService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	// Статический фронтенд со списком кредитов
	r.Handle("/*", http.FileServer(http.Dir(staticPath)))
}
