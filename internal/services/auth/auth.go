// Package services содержит логику бизнес-уровня для работы с
// пользователями и аутентификацией. Пароли хранятся только как
// bcrypt-хэши (соль и медленная функция входят в формат bcrypt).
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fundolabs/loan-tracker/internal/lib/jwt"
	"github.com/fundolabs/loan-tracker/internal/lib/password"
	"github.com/fundolabs/loan-tracker/internal/models"
	"github.com/fundolabs/loan-tracker/internal/storage"
)

// Типизированные ошибки аутентификации.
var (
	// ErrUsernameTaken — имя пользователя уже зарегистрировано.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken — электронная почта уже зарегистрирована.
	ErrEmailTaken = errors.New("email already exists")
	// ErrInvalidCredentials — неверная пара имя/пароль.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с bcrypt-хэшированием пароля и
// дефолтной ролью "user", затем сразу выдаёт JWT.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword string) (*models.User, string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}
	user := models.User{
		UID:          uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.users.RegisterUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUsernameTaken):
			return nil, "", ErrUsernameTaken
		case errors.Is(err, storage.ErrEmailTaken):
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}
