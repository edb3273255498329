// Package storage реализует хранилище данных на основе PostgreSQL
// для кредитного реестра. Предоставляет методы создания, чтения и
// обновления кредитов, а также работу с пользователями.
package storage

import (
	"context"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"database/sql"
)

// Типизированные ошибки хранилища. Сервисный слой транслирует их
// в ошибки бизнес-уровня.
var (
	// ErrLoanNotFound — кредит с указанным ID не существует.
	ErrLoanNotFound = errors.New("loan not found")
	// ErrUserNotFound — пользователь не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken — имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken — электронная почта уже занята.
	ErrEmailTaken = errors.New("email already exists")
	// ErrVersionConflict — конкурентная запись изменила кредит раньше нас.
	ErrVersionConflict = errors.New("loan version conflict")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// Close закрывает пул соединений с базой.
func (s *Storage) Close() error {
	return s.DB.Close()
}
