package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// UsersService реализует операции над профилем пользователя.
type UsersService struct {
	users UsersRepo
}

// NewUsersService создаёт UsersService.
func NewUsersService(users UsersRepo) *UsersService {
	return &UsersService{users: users}
}

// parseUserID разбирает userID из subject токена.
// Невалидный subject означает битый/чужой токен — ErrUnauthorized.
func parseUserID(userID string) (uuid.UUID, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, serr.ErrUnauthorized
	}
	return id, nil
}

// GetByID возвращает публичный профиль пользователя.
//
// Ошибки:
//   - ErrUnauthorized — userID не является валидным UUID
//   - ErrNotFound — пользователя нет
func (s *UsersService) GetByID(ctx context.Context, userID string) (models.PublicUser, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return models.PublicUser{}, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// UpdateProfile выполняет частичное обновление профиля.
//
// Меняются только поля, реально переданные в upd (непустые указатели);
// поля вне allow-list сюда не попадают вообще — их молча отбрасывает
// типизированная структура ProfileUpdate ещё на декодировании запроса.
// Если ни одно распознанное поле не передано, профиль возвращается
// без изменений (updated_at не трогается).
func (s *UsersService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (models.PublicUser, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return models.PublicUser{}, err
	}

	if upd.Empty() {
		user, err := s.users.GetByID(ctx, id)
		if err != nil {
			return models.PublicUser{}, err
		}
		return user.Public(), nil
	}

	user, err := s.users.UpdateProfile(ctx, id, upd)
	if err != nil {
		return models.PublicUser{}, err
	}
	return user.Public(), nil
}

// Delete удаляет пользователя вместе с его записями (каскад на уровне БД).
// Административная операция: доступна только из mednetctl, HTTP API её
// не выставляет.
func (s *UsersService) Delete(ctx context.Context, userID string) error {
	id, err := parseUserID(userID)
	if err != nil {
		return serr.ErrNotFound
	}
	return s.users.Delete(ctx, id)
}
