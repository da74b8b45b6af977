package service

import (
	"context"
	"errors"
	"strings"

	"github.com/IvanChernomyrdin/mednet/internal/server/config"
	"github.com/IvanChernomyrdin/mednet/internal/server/crypto"
	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// AuthService реализует бизнес-логику аутентификации.
//
// Ответственность:
//   - регистрация пользователей (signup)
//   - аутентификация (login)
//   - выпуск bearer-токенов
//
// Отзыва токенов нет: токен действует до истечения access_ttl.
type AuthService struct {
	users UsersRepo

	pass crypto.PasswordParams
	jwt  crypto.JWTConfig
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, cfg *config.Config) *AuthService {
	return &AuthService{
		users: users,

		pass: crypto.PasswordParams{
			Hasher: crypto.Hasher(strings.ToLower(cfg.Password.Hasher)),
			Argon2: crypto.Argon2Params{
				Time:      cfg.Password.Argon2.Time,
				MemoryKiB: cfg.Password.Argon2.MemoryKiB,
				Threads:   cfg.Password.Argon2.Threads,
				KeyLen:    cfg.Password.Argon2.KeyLen,
				SaltLen:   cfg.Password.Argon2.SaltLen,
			},
			BcryptCost: cfg.Password.Bcrypt.Cost,
		},
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},
	}
}

// Signup регистрирует нового пользователя и сразу выдаёт ему токен.
//
// Форму входных данных проверяет слой validation; здесь email только
// нормализуется (trim + lower), чтобы уникальность не обходилась регистром.
//
// Возвращает:
//   - подписанный токен и публичный вид пользователя
//   - ErrEmailInUse, если email уже зарегистрирован
func (s *AuthService) Signup(ctx context.Context, fullName, email, password string, age int) (string, models.PublicUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	fullName = strings.TrimSpace(fullName)

	hash, err := crypto.HashPassword(password, s.pass)
	if err != nil {
		return "", models.PublicUser{}, serr.ErrInternal
	}

	user, err := s.users.Create(ctx, fullName, email, hash, age)
	if err != nil {
		return "", models.PublicUser{}, err
	}

	token, err := crypto.NewAccessToken(user.ID.String(), s.jwt)
	if err != nil {
		return "", models.PublicUser{}, serr.ErrInternal
	}

	return token, user.Public(), nil
}

// Login аутентифицирует пользователя и выдаёт токен.
//
// Поведение:
//   - не раскрывает факт существования email: и для неизвестного email,
//     и для неверного пароля наружу уходит одна и та же ошибка
//   - сравнение пароля с хэшем — за константное время
//
// Ошибки:
//   - ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.PublicUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// не палим существование email
		if errors.Is(err, serr.ErrNotFound) {
			return "", models.PublicUser{}, serr.ErrInvalidCredentials
		}
		return "", models.PublicUser{}, err
	}

	ok, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", models.PublicUser{}, serr.ErrInternal
	}
	if !ok {
		return "", models.PublicUser{}, serr.ErrInvalidCredentials
	}

	token, err := crypto.NewAccessToken(user.ID.String(), s.jwt)
	if err != nil {
		return "", models.PublicUser{}, serr.ErrInternal
	}

	return token, user.Public(), nil
}
