package services

import (
	"errors"
	"fmt"

	"github.com/fundolabs/loan-tracker/internal/lib/money"
)

// Типизированные исходы операций реестра. Каждый различим через
// errors.Is / errors.As, обработчики транслируют их в HTTP-статусы.
var (
	// ErrValidation — базовая ошибка валидации входных данных.
	// Конкретные ошибки ниже оборачивают её, чтобы вызывающий мог
	// проверять errors.Is(err, ErrValidation).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidPrincipal — сумма кредита должна быть строго положительной.
	ErrInvalidPrincipal = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)

	// ErrInvalidApplicantName — имя заявителя вне диапазона 2-200 символов.
	ErrInvalidApplicantName = fmt.Errorf("%w: applicant name must be between 2 and 200 characters", ErrValidation)

	// ErrInvalidPaymentAmount — сумма платежа должна быть строго положительной.
	ErrInvalidPaymentAmount = fmt.Errorf("%w: payment amount must be greater than zero", ErrValidation)

	// ErrLoanNotFound — кредит с указанным ID не существует.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrLoanAlreadyPaid — кредит уже полностью погашен, платежи невозможны.
	ErrLoanAlreadyPaid = errors.New("this loan has already been paid in full")

	// ErrConflict — конкурентный платеж изменил кредит первым.
	// Операцию можно безопасно повторить целиком.
	ErrConflict = errors.New("loan was modified concurrently")
)

// ExceedsBalanceError возвращается, когда платеж превышает текущий
// остаток. Несёт обе суммы, чтобы вызывающий мог показать их пользователю.
type ExceedsBalanceError struct {
	Amount         money.Amount // Отклонённая сумма платежа
	CurrentBalance money.Amount // Текущий остаток по кредиту
}

func (e *ExceedsBalanceError) Error() string {
	return fmt.Sprintf("payment amount %s exceeds current balance %s", e.Amount, e.CurrentBalance)
}
