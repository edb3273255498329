// Package read реализует HTTP-обработчик для получения кредита по ID.
//
// Handler извлекает ID из URL-параметров, вызывает бизнес-логику для чтения
// кредита и возвращает данные в JSON-формате.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/fundolabs/loan-tracker/internal/http/response"
	"github.com/fundolabs/loan-tracker/internal/lib/sl"
	"github.com/fundolabs/loan-tracker/internal/models"
	loanservice "github.com/fundolabs/loan-tracker/internal/services/loan"
)

// Handler обрабатывает запросы на получение кредита по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для получения кредита по ID
}

// Service описывает интерфейс бизнес-логики чтения кредита.
type Service interface {
	Read(ctx context.Context, id int) (*models.Loan, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить кредит по ID
// @Description Возвращает кредит с текущим остатком и статусом.
// @Tags Loans
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID кредита"
// @Success 200 {object} response.Response "Данные кредита"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Кредит не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /loans/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid loan id"))
		return
	}

	loan, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, loanservice.ErrLoanNotFound) {
			log.Error("loan not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("loan not found"))
			return
		}
		log.Error("failed to read loan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read loan"))
		return
	}

	log.Info("success to read loan", slog.Int("id", loan.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"loan": loan,
	}))
}
