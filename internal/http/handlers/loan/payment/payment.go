// Package payment реализует HTTP-обработчик для внесения платежа по кредиту.
//
// Handler принимает JSON-запрос с суммой платежа, валидирует его и вызывает
// бизнес-логику применения платежа. Типизированные исходы реестра
// транслируются в HTTP-статусы: отсутствие кредита — 404, погашенный кредит
// и превышение остатка — 400, конкурентный конфликт записи — 409.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/fundolabs/loan-tracker/internal/http/response"
	"github.com/fundolabs/loan-tracker/internal/lib/money"
	"github.com/fundolabs/loan-tracker/internal/lib/sl"
	"github.com/fundolabs/loan-tracker/internal/models"
	loanservice "github.com/fundolabs/loan-tracker/internal/services/loan"
)

// Handler управляет HTTP-запросами на внесение платежей.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики применения платежа
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики применения платежа.
type Service interface {
	ApplyPayment(ctx context.Context, id int, amount money.Amount) (*models.Loan, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Внести платеж по кредиту
// @Description Уменьшает остаток на сумму платежа. При достижении нуля статус становится "paid".
// @Tags Loans
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID кредита"
// @Param request body models.PaymentRequest true "Сумма платежа"
// @Success 200 {object} response.Response "Кредит после платежа"
// @Failure 400 {object} response.ErrorResponse "Некорректная сумма, погашенный кредит или превышение остатка"
// @Failure 404 {object} response.ErrorResponse "Кредит не найден"
// @Failure 409 {object} response.ErrorResponse "Конкурентное изменение кредита, повторите запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /loans/{id}/payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.payment"

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

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("processing payment", slog.Int("id", id), slog.String("amount", req.Amount.String()))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	loan, err := h.service.ApplyPayment(r.Context(), id, req.Amount)
	if err != nil {
		h.renderPaymentError(w, r, log, id, err)
		return
	}

	log.Info("payment processed successfully",
		slog.Int("id", loan.ID),
		slog.String("new_balance", loan.CurrentBalance.String()),
		slog.String("status", loan.Status))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"loan": loan,
	}))
}

// renderPaymentError транслирует типизированные исходы реестра в HTTP-ответы.
func (h *Handler) renderPaymentError(w http.ResponseWriter, r *http.Request, log *slog.Logger, id int, err error) {
	var exceedsErr *loanservice.ExceedsBalanceError

	switch {
	case errors.Is(err, loanservice.ErrValidation):
		log.Error("payment rejected", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error(err.Error()))

	case errors.Is(err, loanservice.ErrLoanNotFound):
		log.Error("payment failed: loan not found", slog.Int("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("loan not found"))

	case errors.Is(err, loanservice.ErrLoanAlreadyPaid):
		log.Error("payment rejected: loan is already paid", slog.Int("id", id))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("this loan has already been paid in full"))

	case errors.As(err, &exceedsErr):
		log.Error("payment rejected: amount exceeds balance",
			slog.Int("id", id),
			slog.String("amount", exceedsErr.Amount.String()),
			slog.String("current_balance", exceedsErr.CurrentBalance.String()))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ErrorWithData("payment amount exceeds current balance", map[string]any{
			"paymentAmount":  exceedsErr.Amount,
			"currentBalance": exceedsErr.CurrentBalance,
		}))

	case errors.Is(err, loanservice.ErrConflict):
		log.Error("payment conflict, client should retry", slog.Int("id", id))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("loan was modified concurrently, retry the payment"))

	default:
		log.Error("failed to process payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process payment"))
	}
}
