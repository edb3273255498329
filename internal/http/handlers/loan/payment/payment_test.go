package payment

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/fundolabs/loan-tracker/internal/lib/money"
	"github.com/fundolabs/loan-tracker/internal/models"
	loanservice "github.com/fundolabs/loan-tracker/internal/services/loan"
)

// MockService реализует интерфейс payment.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ApplyPayment(ctx context.Context, id int, amount money.Amount) (*models.Loan, error) {
	args := m.Called(ctx, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Loan), args.Error(1)
}

func TestPaymentHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	updatedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	activeLoan := &models.Loan{
		ID:             123,
		Principal:      money.MustParse("10000.00"),
		CurrentBalance: money.MustParse("7500.00"),
		ApplicantName:  "Jane Borrower",
		Status:         models.StatusActive,
		CreatedAt:      updatedAt.Add(-time.Hour),
		UpdatedAt:      &updatedAt,
	}
	paidLoan := &models.Loan{
		ID:             123,
		Principal:      money.MustParse("10000.00"),
		CurrentBalance: money.MustParse("0.00"),
		ApplicantName:  "Jane Borrower",
		Status:         models.StatusPaid,
		CreatedAt:      updatedAt.Add(-time.Hour),
		UpdatedAt:      &updatedAt,
	}

	tests := []struct {
		name           string
		id             string
		requestBody    string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешный частичный платеж",
			id:          "123",
			requestBody: `{"amount": 2500.00}`,
			setupMock: func(m *MockService) {
				m.On("ApplyPayment", mock.Anything, 123, money.MustParse("2500.00")).
					Return(activeLoan, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"currentBalance":7500.00`,
		},
		{
			name:        "полное погашение",
			id:          "123",
			requestBody: `{"amount": 7500.00}`,
			setupMock: func(m *MockService) {
				m.On("ApplyPayment", mock.Anything, 123, money.MustParse("7500.00")).
					Return(paidLoan, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"paid"`,
		},
		{
			name:           "некорректный id в url",
			id:             "abc",
			requestBody:    `{"amount": 100}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid loan id"}`,
		},
		{
			name:           "некорректный JSON",
			id:             "123",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "сумма с тремя знаками после запятой",
			id:             "123",
			requestBody:    `{"amount": 0.005}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "отсутствует сумма платежа",
			id:             "123",
			requestBody:    `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Amount is a required field`,
		},
		{
			name:        "отрицательная сумма отклоняется сервисом",
			id:          "123",
			requestBody: `{"amount": -100}`,
			setupMock: func(m *MockService) {
				m.On("ApplyPayment", mock.Anything, 123, money.MustParse("-100")).
					Return(nil, loanservice.ErrInvalidPaymentAmount)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `payment amount must be greater than zero`,
		},
		{
			name:        "кредит не найден",
			id:          "999",
			requestBody: `{"amount": 100}`,
			setupMock: func(m *MockService) {
				m.On("ApplyPayment", mock.Anything, 999, money.MustParse("100")).
					Return(nil, loanservice.ErrLoanNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"loan not found"}`,
		},
		{
			name:        "кредит уже погашен",
			id:          "123",
			requestBody: `{"amount": 100}`,
			setupMock: func(m *MockService) {
				m.On("ApplyPayment", mock.Anything, 123, money.MustParse("100")).
					Return(nil, loanservice.ErrLoanAlreadyPaid)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"this loan has already been paid in full"}`,
		},
		{
			name:        "платеж превышает остаток",
			id:          "123",
			requestBody: `{"amount": 10000.00}`,
			setupMock: func(m *MockService) {
				m.On("ApplyPayment", mock.Anything, 123, money.MustParse("10000.00")).
					Return(nil, &loanservice.ExceedsBalanceError{
						Amount:         money.MustParse("10000.00"),
						CurrentBalance: money.MustParse("7500.00"),
					})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"paymentAmount":10000.00`,
		},
		{
			name:        "конкурентный конфликт",
			id:          "123",
			requestBody: `{"amount": 100}`,
			setupMock: func(m *MockService) {
				m.On("ApplyPayment", mock.Anything, 123, money.MustParse("100")).
					Return(nil, loanservice.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"loan was modified concurrently, retry the payment"}`,
		},
		{
			name:        "ошибка сервиса",
			id:          "123",
			requestBody: `{"amount": 100}`,
			setupMock: func(m *MockService) {
				m.On("ApplyPayment", mock.Anything, 123, money.MustParse("100")).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"could not process payment"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/loans/"+tt.id+"/payment", bytes.NewReader([]byte(tt.requestBody)))
			req.Header.Set("Content-Type", "application/json")
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			// Устанавливаем URL параметр id для chi
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}

func TestPaymentHandler_ExceedsBalancePayload(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	mockService := new(MockService)
	mockService.On("ApplyPayment", mock.Anything, 1, money.MustParse("10000.00")).
		Return(nil, &loanservice.ExceedsBalanceError{
			Amount:         money.MustParse("10000.00"),
			CurrentBalance: money.MustParse("7500.00"),
		})

	handler := New(logger, mockService)

	req := httptest.NewRequest(http.MethodPost, "/loans/1/payment", bytes.NewReader([]byte(`{"amount": 10000.00}`)))
	req.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	// Ответ несет обе суммы, чтобы клиент мог показать их пользователю.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"error":"payment amount exceeds current balance"`)
	assert.Contains(t, body, `"paymentAmount":10000.00`)
	assert.Contains(t, body, `"currentBalance":7500.00`)
	mockService.AssertExpectations(t)
}
