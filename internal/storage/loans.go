package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fundolabs/loan-tracker/internal/models"
)

// CreateLoan вставляет новый кредит и возвращает сохранённую запись
// с присвоенным ID.
func (s *Storage) CreateLoan(ctx context.Context, loan models.Loan) (*models.Loan, error) {
	const op = "storage.CreateLoan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO loans (principal, current_balance, applicant_name, status, created_at, version)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	loan.Version = 1
	err := s.DB.QueryRowContext(ctx, query,
		loan.Principal, loan.CurrentBalance, loan.ApplicantName, loan.Status,
		loan.CreatedAt, loan.Version).Scan(&loan.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &loan, nil
}

// GetLoan возвращает кредит по его ID или ErrLoanNotFound.
func (s *Storage) GetLoan(ctx context.Context, id int) (*models.Loan, error) {
	const op = "storage.GetLoan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, principal, current_balance, applicant_name, status,
				  created_at, updated_at, version
			  FROM loans WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Loan
	var updatedAt sql.NullTime
	if err := row.Scan(&result.ID, &result.Principal, &result.CurrentBalance,
		&result.ApplicantName, &result.Status, &result.CreatedAt,
		&updatedAt, &result.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrLoanNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if updatedAt.Valid {
		result.UpdatedAt = &updatedAt.Time
	}
	return &result, nil
}

// ListLoans возвращает все кредиты, отсортированные по дате создания
// (сначала новые). Записи с одинаковой датой идут в порядке вставки.
func (s *Storage) ListLoans(ctx context.Context) ([]*models.Loan, error) {
	const op = "storage.ListLoans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, principal, current_balance, applicant_name, status,
				  created_at, updated_at, version
			  FROM loans
			  ORDER BY created_at DESC, id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Loan
	for rows.Next() {
		var item models.Loan
		var updatedAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.Principal, &item.CurrentBalance,
			&item.ApplicantName, &item.Status, &item.CreatedAt,
			&updatedAt, &item.Version); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if updatedAt.Valid {
			item.UpdatedAt = &updatedAt.Time
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateLoan записывает изменённый остаток и статус кредита одной
// атомарной операцией. Запись проходит только если версия в базе
// совпадает с прочитанной: иначе конкурентный платеж успел раньше
// и возвращается ErrVersionConflict.
func (s *Storage) UpdateLoan(ctx context.Context, loan *models.Loan) error {
	const op = "storage.UpdateLoan"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE loans
			  SET current_balance = $1, status = $2, updated_at = $3, version = version + 1
			  WHERE id = $4 AND version = $5`
	result, err := s.DB.ExecContext(ctx, query,
		loan.CurrentBalance, loan.Status, loan.UpdatedAt, loan.ID, loan.Version)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrVersionConflict)
	}
	loan.Version++
	return nil
}
