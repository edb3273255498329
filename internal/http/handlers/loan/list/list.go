// Package list реализует HTTP-обработчик для получения списка всех кредитов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/fundolabs/loan-tracker/internal/http/response"
	"github.com/fundolabs/loan-tracker/internal/lib/sl"
	"github.com/fundolabs/loan-tracker/internal/models"
)

// Handler обрабатывает запросы на получение списка кредитов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики получения списка кредитов.
type Service interface {
	List(ctx context.Context) ([]*models.Loan, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список всех кредитов
// @Description Возвращает все кредиты, отсортированные по дате создания (сначала новые).
// @Tags Loans
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response "Список кредитов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /loans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	loans, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list loans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list loans"))
		return
	}

	log.Info("list loans", slog.Int("count", len(loans)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"count": len(loans),
		"loans": loans,
	}))
}
