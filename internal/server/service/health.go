package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// HealthService реализует операции над записями показателей здоровья.
//
// Все операции — одношаговый CRUD: никаких workflow между записями нет.
// Нормализация легаси-алиасов типа выполняется здесь, одинаково для
// любого источника значения (path, query, body).
type HealthService struct {
	health HealthRepo
}

// NewHealthService создаёт HealthService.
func NewHealthService(health HealthRepo) *HealthService {
	return &HealthService{health: health}
}

// Submit сохраняет новую иммутабельную запись показателя.
//
// typeRaw может быть каноническим типом или легаси-алиасом — он
// нормализуется перед сохранением. timestamp — время события,
// его задаёт клиент.
//
// Ошибки:
//   - ErrInvalidInput — тип вне закрытого множества
//   - ErrNotFound — пользователь не существует
func (s *HealthService) Submit(ctx context.Context, userID, typeRaw string, value float64, unit *string, timestamp time.Time, additionalData json.RawMessage) (models.HealthRecord, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return models.HealthRecord{}, err
	}

	typ := models.NormalizeType(typeRaw)
	if !typ.IsCanonical() {
		return models.HealthRecord{}, serr.ErrInvalidInput
	}

	return s.health.Insert(ctx, models.HealthRecord{
		UserID:         id,
		Type:           typ,
		Value:          value,
		Unit:           unit,
		Timestamp:      timestamp,
		AdditionalData: additionalData,
	})
}

// LatestPerType возвращает по одной самой свежей записи на каждый
// канонический тип, у которого записи вообще есть. Порядок — порядок
// models.CanonicalTypes. Типы без записей просто пропускаются.
func (s *HealthService) LatestPerType(ctx context.Context, userID string) ([]models.HealthRecord, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	latest := make([]models.HealthRecord, 0, len(models.CanonicalTypes))
	for _, typ := range models.CanonicalTypes {
		rec, err := s.health.LatestByType(ctx, id, typ)
		if err != nil {
			if errors.Is(err, serr.ErrNotFound) {
				continue
			}
			return nil, err
		}
		latest = append(latest, rec)
	}
	return latest, nil
}

// ListByType возвращает страницу записей одного типа (timestamp DESC)
// и общее количество записей этого типа у пользователя.
//
// typ уже канонический — нормализацию и проверку делает слой validation.
func (s *HealthService) ListByType(ctx context.Context, userID string, typ models.MetricType, limit, offset int) ([]models.HealthRecord, int, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	return s.health.ListByType(ctx, id, typ, limit, offset)
}

// History возвращает все записи пользователя под опциональными фильтрами
// (тип, диапазон дат включительно), без пагинации, timestamp DESC.
func (s *HealthService) History(ctx context.Context, userID string, f models.HistoryFilter) ([]models.HealthRecord, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.health.History(ctx, id, f)
}
