// Package service содержит бизнес-логику приложения (mednet).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/mednet/internal/server/config"
	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users  UsersRepo
	Health HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth   *AuthService
	Users  *UsersService
	Health *HealthService
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (параметры хэширования пароля и JWT).
func NewServices(repos Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:   NewAuthService(repos.Users, cfg),
		Users:  NewUsersService(repos.Users),
		Health: NewHealthService(repos.Health),
	}
}

// UsersRepo — репозиторий пользователей.
type UsersRepo interface {
	Create(ctx context.Context, fullName, email, passwordHash string, age int) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// HealthRepo — репозиторий записей показателей здоровья (insert + выборки,
// записи иммутабельны).
type HealthRepo interface {
	Insert(ctx context.Context, rec models.HealthRecord) (models.HealthRecord, error)
	LatestByType(ctx context.Context, userID uuid.UUID, typ models.MetricType) (models.HealthRecord, error)
	ListByType(ctx context.Context, userID uuid.UUID, typ models.MetricType, limit, offset int) ([]models.HealthRecord, int, error)
	History(ctx context.Context, userID uuid.UUID, f models.HistoryFilter) ([]models.HealthRecord, error)
}
