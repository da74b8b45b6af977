package tests

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/mednet/internal/server/repository"
	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// полный список колонок users — тот же порядок, что и в scanUser
var userCols = []string{
	"id", "full_name", "email", "password_hash", "age", "profile_image_url",
	"blood_group", "gender", "height", "weight", "phone_number", "date_of_birth",
	"allergies", "medications", "medical_conditions",
	"emergency_contact_name", "emergency_contact_phone", "emergency_contact_relation",
	"created_at", "updated_at",
}

// строка users с минимально заполненным профилем
func userRow(id uuid.UUID, fullName, email, hash string, age int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userCols).AddRow(
		id, fullName, email, hash, age, nil,
		nil, nil, nil, nil, nil, nil,
		nil, nil, nil,
		nil, nil, nil,
		now, now,
	)
}

// Успех
func TestUsersRepository_Create_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Test User", "test@mail.com", "hash", 30).
		WillReturnRows(userRow(id, "Test User", "test@mail.com", "hash", 30))

	got, err := repo.Create(context.Background(), "Test User", "test@mail.com", "hash", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id {
		t.Fatalf("expected %v, got %v", id, got.ID)
	}
	if got.Age == nil || *got.Age != 30 {
		t.Fatalf("expected age 30, got %v", got.Age)
	}
}

// Такой email уже есть
func TestUsersRepository_Create_EmailInUse(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	pgErr := &pgconn.PgError{
		Code: "23505", // unique_violation
	}

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(pgErr)

	_, err := repo.Create(context.Background(), "Test User", "test@mail.com", "hash", 30)

	if err != serr.ErrEmailInUse {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

// Ошибка сервера
func TestUsersRepository_Create_InternalError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.Create(context.Background(), "Test User", "test@mail.com", "hash", 30)

	if err != serr.ErrInternal {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

// поиск по email
func TestUsersRepository_GetByEmail_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("test@mail.com").
		WillReturnRows(userRow(id, "Test User", "test@mail.com", "hash", 30))

	got, err := repo.GetByEmail(context.Background(), "test@mail.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id || got.PasswordHash != "hash" {
		t.Fatalf("unexpected result")
	}
}

// не найден по email
func TestUsersRepository_GetByEmail_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email`).
		WithArgs("test@mail.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "test@mail.com")

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// поиск по id
func TestUsersRepository_GetByID_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(id).
		WillReturnRows(userRow(id, "Test User", "test@mail.com", "hash", 30))

	got, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "test@mail.com" {
		t.Fatalf("unexpected email: %v", got.Email)
	}
}

// не найден по id
func TestUsersRepository_GetByID_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Частичное обновление: передано одно поле — в SET уходит только оно
// (плюс updated_at), значение — параметром
func TestUsersRepository_UpdateProfile_SingleField(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	age := 40

	mock.ExpectQuery(`UPDATE users SET age = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(age, id).
		WillReturnRows(userRow(id, "Test User", "test@mail.com", "hash", 40))

	got, err := repo.UpdateProfile(context.Background(), id, models.ProfileUpdate{Age: &age})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Age == nil || *got.Age != 40 {
		t.Fatalf("expected age 40, got %v", got.Age)
	}
}

// Несколько полей: порядок плейсхолдеров фиксированный, по таблице колонок
func TestUsersRepository_UpdateProfile_MultipleFields(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	fullName := "New Name"
	gender := "female"

	mock.ExpectQuery(`UPDATE users SET full_name = \$1, gender = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(&fullName, &gender, id).
		WillReturnRows(userRow(id, fullName, "test@mail.com", "hash", 30))

	got, err := repo.UpdateProfile(context.Background(), id, models.ProfileUpdate{
		FullName: &fullName,
		Gender:   &gender,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FullName != fullName {
		t.Fatalf("expected %q, got %q", fullName, got.FullName)
	}
}

// Новый email уже занят
func TestUsersRepository_UpdateProfile_EmailInUse(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	email := "taken@mail.com"

	pgErr := &pgconn.PgError{
		Code: "23505", // unique_violation
	}

	mock.ExpectQuery(`UPDATE users SET`).
		WillReturnError(pgErr)

	_, err := repo.UpdateProfile(context.Background(), id, models.ProfileUpdate{Email: &email})

	if err != serr.ErrEmailInUse {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

// Обновление несуществующего пользователя
func TestUsersRepository_UpdateProfile_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()
	age := 40

	mock.ExpectQuery(`UPDATE users SET`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateProfile(context.Background(), id, models.ProfileUpdate{Age: &age})

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// Удаление
func TestUsersRepository_Delete_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()

	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Удаление несуществующего пользователя
func TestUsersRepository_Delete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewUsersRepository(db)

	id := uuid.New()

	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
