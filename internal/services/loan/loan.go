// Package services содержит бизнес-логику кредитного реестра: создание
// кредитов, чтение и применение платежей с выводом статуса.
//
// Правила платежа проверяются в фиксированном порядке: положительная
// сумма, существование кредита, статус, достаточность остатка. Любая
// неудачная проверка прерывает операцию до каких-либо записей в
// хранилище, поэтому неуспешный платеж не оставляет следов.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fundolabs/loan-tracker/internal/lib/money"
	"github.com/fundolabs/loan-tracker/internal/lib/sl"
	"github.com/fundolabs/loan-tracker/internal/models"
	"github.com/fundolabs/loan-tracker/internal/storage"
)

// Границы длины имени заявителя.
const (
	applicantNameMinLen = 2
	applicantNameMaxLen = 200
)

const cacheTTL = time.Hour

// LoanRepository определяет методы для работы с кредитами в хранилище.
type LoanRepository interface {
	// CreateLoan добавляет новый кредит и возвращает сохранённую запись с ID.
	CreateLoan(ctx context.Context, loan models.Loan) (*models.Loan, error)
	// GetLoan возвращает кредит по ID.
	GetLoan(ctx context.Context, id int) (*models.Loan, error)
	// ListLoans возвращает все кредиты, сначала созданные последними.
	ListLoans(ctx context.Context) ([]*models.Loan, error)
	// UpdateLoan атомарно записывает изменённый кредит с проверкой версии.
	UpdateLoan(ctx context.Context, loan *models.Loan) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// LoanService реализует бизнес-логику кредитного реестра.
// Часы инжектируются, чтобы тесты могли подставить детерминированное время.
type LoanService struct {
	repo  LoanRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewLoanService создает новый экземпляр LoanService.
func NewLoanService(repo LoanRepository, cache Cache, log *slog.Logger) *LoanService {
	return &LoanService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock подменяет источник времени. Используется в тестах.
func (s *LoanService) WithClock(now func() time.Time) *LoanService {
	s.now = now
	return s
}

// Create создает новый кредит. Остаток равен исходной сумме, статус
// "active". Валидация выполняется до обращения к хранилищу.
func (s *LoanService) Create(ctx context.Context, req models.CreateLoanRequest) (*models.Loan, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidPrincipal
	}
	if n := utf8.RuneCountInString(req.ApplicantName); n < applicantNameMinLen || n > applicantNameMaxLen {
		return nil, ErrInvalidApplicantName
	}

	loan := models.Loan{
		Principal:      req.Amount,
		CurrentBalance: req.Amount,
		ApplicantName:  req.ApplicantName,
		Status:         models.StatusActive,
		CreatedAt:      s.now(),
	}

	stored, err := s.repo.CreateLoan(ctx, loan)
	if err != nil {
		return nil, err
	}

	s.log.Info("created new loan",
		slog.Int("id", stored.ID),
		slog.String("applicant", stored.ApplicantName),
		slog.String("amount", stored.Principal.String()))

	s.cacheLoan(stored)

	return stored, nil
}

// Read возвращает кредит по ID, сначала проверяя кеш.
func (s *LoanService) Read(ctx context.Context, id int) (*models.Loan, error) {
	cacheKey := loanCacheKey(id)

	var cached models.Loan
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read loan from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrLoanNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	s.cacheLoan(loan)

	return loan, nil
}

// List возвращает все кредиты, отсортированные по дате создания
// (сначала новые).
func (s *LoanService) List(ctx context.Context) ([]*models.Loan, error) {
	return s.repo.ListLoans(ctx)
}

// ApplyPayment применяет платеж к кредиту и возвращает снимок после
// платежа. Проверки идут строго по порядку, побеждает первая неудачная:
//
//  1. сумма платежа > 0, иначе ошибка валидации;
//  2. кредит существует, иначе ErrLoanNotFound;
//  3. кредит не погашен, иначе ErrLoanAlreadyPaid;
//  4. сумма не превышает остаток, иначе ExceedsBalanceError.
//
// Остаток уменьшается точной десятичной арифметикой; при достижении
// ровно нуля статус становится "paid". Запись в хранилище атомарна:
// при конкурентном платеже по тому же кредиту одна из операций
// завершится ErrConflict и может быть повторена вызывающим.
func (s *LoanService) ApplyPayment(ctx context.Context, id int, amount money.Amount) (*models.Loan, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidPaymentAmount
	}

	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrLoanNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	if loan.IsPaid() {
		return nil, ErrLoanAlreadyPaid
	}

	if amount.GreaterThan(loan.CurrentBalance) {
		return nil, &ExceedsBalanceError{
			Amount:         amount,
			CurrentBalance: loan.CurrentBalance,
		}
	}

	oldBalance := loan.CurrentBalance
	loan.CurrentBalance = loan.CurrentBalance.Sub(amount)
	updatedAt := s.now()
	loan.UpdatedAt = &updatedAt
	if loan.CurrentBalance.IsZero() {
		loan.Status = models.StatusPaid
	}

	if err := s.repo.UpdateLoan(ctx, loan); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return nil, ErrConflict
		}
		if errors.Is(err, storage.ErrLoanNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}

	s.log.Info("payment processed",
		slog.Int("id", loan.ID),
		slog.String("amount", amount.String()),
		slog.String("old_balance", oldBalance.String()),
		slog.String("new_balance", loan.CurrentBalance.String()),
		slog.String("status", loan.Status))

	s.cacheLoan(loan)

	return loan, nil
}

func loanCacheKey(id int) string {
	return fmt.Sprintf("loan:%d", id)
}

// cacheLoan кладёт кредит в кеш. Ошибки кеша не фатальны и только логируются.
func (s *LoanService) cacheLoan(loan *models.Loan) {
	cacheKey := loanCacheKey(loan.ID)
	if err := s.cache.Set(cacheKey, loan, cacheTTL); err != nil {
		s.log.Warn("failed to cache loan", slog.String("key", cacheKey), sl.Err(err))
	}
}
