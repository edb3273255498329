// Package models содержит доменные структуры кредитного реестра,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import (
	"time"

	"github.com/fundolabs/loan-tracker/internal/lib/money"
)

// Статусы кредита. Переход единственный и однонаправленный:
// active -> paid, когда остаток достигает ровно нуля.
const (
	StatusActive = "active"
	StatusPaid   = "paid"
)

// Loan представляет кредит: исходную сумму, текущий остаток и статус.
// Principal и ApplicantName неизменяемы после создания. Version —
// счётчик оптимистичной блокировки, растёт при каждой успешной записи.
type Loan struct {
	ID             int          `json:"id"`
	Principal      money.Amount `json:"amount"`
	CurrentBalance money.Amount `json:"currentBalance"`
	ApplicantName  string       `json:"applicantName"`
	Status         string       `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      *time.Time   `json:"updatedAt,omitempty"`
	Version        int64        `json:"-"`
}

// IsPaid сообщает, погашен ли кредит полностью.
func (l *Loan) IsPaid() bool {
	return l.Status == StatusPaid
}

// CreateLoanRequest — входные данные для создания кредита.
// Сумма приходит числом с точностью не более двух знаков.
type CreateLoanRequest struct {
	Amount        money.Amount `json:"amount" validate:"required"`
	ApplicantName string       `json:"applicantName" validate:"required,min=2,max=200"`
}

// PaymentRequest — входные данные для внесения платежа по кредиту.
type PaymentRequest struct {
	Amount money.Amount `json:"amount" validate:"required"`
}
