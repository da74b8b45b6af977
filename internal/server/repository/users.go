// Package repository содержит реализации слоя доступа к данным (Repository layer).
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// userColumns — полный список колонок пользователя для SELECT/RETURNING.
// password_hash выбирается всегда, но наружу его не пускает сервисный слой.
const userColumns = `id, full_name, email, password_hash, age, profile_image_url,
	blood_group, gender, height, weight, phone_number, date_of_birth,
	allergies, medications, medical_conditions,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relation,
	created_at, updated_at`

// UsersRepository отвечает за хранение пользователей (PostgreSQL).
type UsersRepository struct {
	db *sql.DB
}

// NewUsersRepository создаёт новый UsersRepository.
func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser читает одну строку users в модель.
// Nullable-колонки сканируются в указатели: NULL превращается в nil.
func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.Age, &u.ProfileImageURL,
		&u.BloodGroup, &u.Gender, &u.Height, &u.Weight, &u.PhoneNumber, &u.DateOfBirth,
		&u.Allergies, &u.Medications, &u.MedicalConditions,
		&u.EmergencyContactName, &u.EmergencyContactPhone, &u.EmergencyContactRelation,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// Create сохраняет нового пользователя.
//
// Возвращает:
//   - созданного пользователя
//   - ErrEmailInUse, если email уже зарегистрирован (unique_violation)
//   - ErrInternal при других ошибках БД
func (r *UsersRepository) Create(ctx context.Context, fullName, email, passwordHash string, age int) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (full_name, email, password_hash, age)
		 VALUES ($1,$2,$3,$4)
		 RETURNING `+userColumns,
		fullName, email, passwordHash, age,
	)

	u, err := scanUser(row)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok {
			if pgErr.Code == "23505" { // unique_violation
				return models.User{}, serr.ErrEmailInUse
			}
		}
		return models.User{}, serr.ErrInternal
	}

	return u, nil
}

// GetByEmail возвращает пользователя по email (вместе с хэшем пароля —
// он нужен сервису аутентификации для проверки).
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}
	return u, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}
	return u, nil
}

// profileColumn — одна позиция статической таблицы "поле обновления -> колонка".
type profileColumn struct {
	name  string
	value any
	set   bool
}

// profileColumns раскладывает типизированное частичное обновление
// по фиксированному списку колонок. Никакой итерации по ключам запроса:
// колонка попадает в UPDATE только если соответствующее поле непустое.
func profileColumns(upd models.ProfileUpdate) []profileColumn {
	return []profileColumn{
		{"full_name", upd.FullName, upd.FullName != nil},
		{"email", upd.Email, upd.Email != nil},
		{"age", upd.Age, upd.Age != nil},
		{"profile_image_url", upd.ProfileImageURL, upd.ProfileImageURL != nil},
		{"blood_group", upd.BloodGroup, upd.BloodGroup != nil},
		{"gender", upd.Gender, upd.Gender != nil},
		{"height", upd.Height, upd.Height != nil},
		{"weight", upd.Weight, upd.Weight != nil},
		{"phone_number", upd.PhoneNumber, upd.PhoneNumber != nil},
		{"date_of_birth", upd.DateOfBirth, upd.DateOfBirth != nil},
		{"allergies", upd.Allergies, upd.Allergies != nil},
		{"medications", upd.Medications, upd.Medications != nil},
		{"medical_conditions", upd.MedicalConditions, upd.MedicalConditions != nil},
		{"emergency_contact_name", upd.EmergencyContactName, upd.EmergencyContactName != nil},
		{"emergency_contact_phone", upd.EmergencyContactPhone, upd.EmergencyContactPhone != nil},
		{"emergency_contact_relation", upd.EmergencyContactRelation, upd.EmergencyContactRelation != nil},
	}
}

// UpdateProfile выполняет частичное обновление профиля.
//
// SET-клаузы собираются из статической таблицы profileColumns,
// значения всегда уходят параметрами — имена колонок в запрос
// попадают только из фиксированного списка. updated_at проставляется
// при любом успешном обновлении.
//
// Ожидается, что хотя бы одно поле задано (пустое обновление
// отфильтровывает сервисный слой).
//
// Ошибки:
//   - ErrNotFound — пользователя нет
//   - ErrEmailInUse — новый email уже занят
//   - ErrInternal — прочие ошибки БД
func (r *UsersRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (models.User, error) {
	sets := make([]string, 0, 17)
	args := make([]any, 0, 17)

	i := 1
	for _, c := range profileColumns(upd) {
		if !c.set {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", c.name, i))
		args = append(args, c.value)
		i++
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		fmt.Sprintf(` WHERE id = $%d RETURNING `+userColumns, i)

	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, serr.ErrNotFound
		}
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return models.User{}, serr.ErrEmailInUse
		}
		return models.User{}, serr.ErrInternal
	}
	return u, nil
}

// Delete удаляет пользователя. Записи health_data удаляются каскадно
// на уровне БД (FK ON DELETE CASCADE). Используется только админской
// командой, HTTP API удаление не выставляет.
func (r *UsersRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return serr.ErrInternal
	}
	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrNotFound
	}
	return nil
}
