// Package create реализует HTTP-обработчик для создания новых кредитов.
//
// Handler принимает JSON-запрос с суммой и именем заявителя, валидирует его,
// вызывает бизнес-логику создания кредита через сервис и возвращает созданную
// запись в JSON-формате.
//
// В случае ошибок формируются соответствующие HTTP-ответы с описанием проблемы.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/fundolabs/loan-tracker/internal/http/response"
	"github.com/fundolabs/loan-tracker/internal/lib/sl"
	"github.com/fundolabs/loan-tracker/internal/models"
	loanservice "github.com/fundolabs/loan-tracker/internal/services/loan"
)

// Handler управляет HTTP-запросами на создание кредитов.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания кредитов
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания кредита.
type Service interface {
	Create(ctx context.Context, req models.CreateLoanRequest) (*models.Loan, error)
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
// @Summary Создать новый кредит
// @Description Создает кредит: остаток равен сумме, статус "active". Возвращает сохранённую запись.
// @Tags Loans
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CreateLoanRequest true "Данные нового кредита"
// @Success 201 {object} response.Response "Созданный кредит"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или сумма"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании кредита"
// @Router /loans [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.loan.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("applicant", req.ApplicantName))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	loan, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, loanservice.ErrValidation) {
			log.Error("loan rejected", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("failed to create loan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create loan"))
		return
	}

	log.Info("success to create loan", slog.Int("id", loan.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"loan": loan,
	}))
}
