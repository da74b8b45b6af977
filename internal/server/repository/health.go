package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// HealthRepository отвечает за хранение записей показателей здоровья.
//
// Записи только вставляются и читаются: UPDATE/DELETE по health_data
// в этом репозитории нет намеренно.
type HealthRepository struct {
	db *sql.DB
}

// NewHealthRepository создаёт новый HealthRepository.
func NewHealthRepository(db *sql.DB) *HealthRepository {
	return &HealthRepository{db: db}
}

// Insert сохраняет новую запись показателя.
//
// additionalData уходит в JSONB как есть (nil -> NULL).
//
// Ошибки:
//   - ErrNotFound — user_id не ссылается на существующего пользователя
//   - ErrInternal — прочие ошибки БД
func (r *HealthRepository) Insert(ctx context.Context, rec models.HealthRecord) (models.HealthRecord, error) {
	var additional any
	if rec.AdditionalData != nil {
		additional = []byte(rec.AdditionalData)
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO health_data (user_id, type, value, unit, timestamp, additional_data)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 RETURNING id, created_at`,
		rec.UserID, string(rec.Type), rec.Value, rec.Unit, rec.Timestamp, additional,
	).Scan(&rec.ID, &rec.CreatedAt)

	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23503" { // foreign_key_violation
				return models.HealthRecord{}, serr.ErrNotFound
			}
		}
		return models.HealthRecord{}, serr.ErrInternal
	}

	return rec, nil
}

// LatestByType возвращает самую свежую (по timestamp) запись одного типа.
//
// ErrNotFound — записей этого типа у пользователя нет.
func (r *HealthRepository) LatestByType(ctx context.Context, userID uuid.UUID, typ models.MetricType) (models.HealthRecord, error) {
	var rec models.HealthRecord

	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, type, value, unit, timestamp
		 FROM health_data
		 WHERE user_id = $1 AND type = $2
		 ORDER BY timestamp DESC
		 LIMIT 1`,
		userID, string(typ),
	).Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Value, &rec.Unit, &rec.Timestamp)

	if err != nil {
		if err == sql.ErrNoRows {
			return models.HealthRecord{}, serr.ErrNotFound
		}
		return models.HealthRecord{}, serr.ErrInternal
	}
	return rec, nil
}

// ListByType возвращает страницу записей одного типа (timestamp DESC)
// и общее количество записей под тем же фильтром.
//
// total считается отдельным COUNT-запросом — это постраничная выдача
// со смещением, не курсор.
func (r *HealthRepository) ListByType(ctx context.Context, userID uuid.UUID, typ models.MetricType, limit, offset int) ([]models.HealthRecord, int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, value, unit, timestamp, additional_data
		 FROM health_data
		 WHERE user_id = $1 AND type = $2
		 ORDER BY timestamp DESC
		 LIMIT $3 OFFSET $4`,
		userID, string(typ), limit, offset,
	)
	if err != nil {
		return nil, 0, serr.ErrInternal
	}
	defer rows.Close()

	records := make([]models.HealthRecord, 0, limit)
	for rows.Next() {
		var rec models.HealthRecord
		var additional []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Value, &rec.Unit, &rec.Timestamp, &additional); err != nil {
			return nil, 0, serr.ErrInternal
		}
		if additional != nil {
			rec.AdditionalData = json.RawMessage(additional)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, serr.ErrInternal
	}

	var total int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM health_data WHERE user_id = $1 AND type = $2`,
		userID, string(typ),
	).Scan(&total)
	if err != nil {
		return nil, 0, serr.ErrInternal
	}

	return records, total, nil
}

// History возвращает все записи пользователя под опциональными фильтрами
// (тип, диапазон дат — границы включительные), timestamp DESC, без пагинации.
//
// WHERE собирается из фиксированного набора условных клауз,
// значения всегда уходят параметрами.
func (r *HealthRepository) History(ctx context.Context, userID uuid.UUID, f models.HistoryFilter) ([]models.HealthRecord, error) {
	query := `SELECT id, user_id, type, value, unit, timestamp
		 FROM health_data
		 WHERE user_id = $1`
	args := []any{userID}

	i := 2
	if f.Type != nil {
		query += fmt.Sprintf(` AND type = $%d`, i)
		args = append(args, string(*f.Type))
		i++
	}
	if f.StartDate != nil {
		query += fmt.Sprintf(` AND timestamp >= $%d`, i)
		args = append(args, *f.StartDate)
		i++
	}
	if f.EndDate != nil {
		query += fmt.Sprintf(` AND timestamp <= $%d`, i)
		args = append(args, *f.EndDate)
		i++
	}
	query += ` ORDER BY timestamp DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	records := []models.HealthRecord{}
	for rows.Next() {
		var rec models.HealthRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Value, &rec.Unit, &rec.Timestamp); err != nil {
			return nil, serr.ErrInternal
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}

	return records, nil
}
