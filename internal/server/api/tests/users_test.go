package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/mednet/internal/server/api"
	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// Без токена защищённый путь отдаёт 401 с generic-сообщением
func TestHandler_GetMe_NoToken(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := do(router, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}

	var resp api.ErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Message != "Unauthorized" {
		t.Fatalf("expected %q, got %q", "Unauthorized", resp.Message)
	}
}

// Токен, подписанный другим ключом — тоже 401 с тем же сообщением
func TestHandler_GetMe_BadToken(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := do(router, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestHandler_GetMe_OK(t *testing.T) {
	t.Parallel()

	router, users, _ := newTestRouter(t)

	userID := uuid.New()
	age := 30

	users.EXPECT().
		GetByID(gomock.Any(), userID).
		Return(models.User{
			ID:           userID,
			FullName:     "Test User",
			Email:        "test@mail.com",
			PasswordHash: "secret-hash",
			Age:          &age,
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", bearerFor(t, userID.String()))
	rec := do(router, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d, body=%q", http.StatusOK, rec.Code, rec.Body.String())
	}

	// хэш пароля не должен утекать в ответ ни под каким ключом
	if strings.Contains(rec.Body.String(), "secret-hash") {
		t.Fatalf("password hash leaked into response: %s", rec.Body.String())
	}

	var resp models.PublicUser
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != userID.String() || resp.Email != "test@mail.com" {
		t.Fatalf("unexpected profile: %+v", resp)
	}
}

// Незаполненный age отдаётся как null, прочие пустые поля — опускаются
func TestHandler_GetMe_NullAge(t *testing.T) {
	t.Parallel()

	router, users, _ := newTestRouter(t)

	userID := uuid.New()

	users.EXPECT().
		GetByID(gomock.Any(), userID).
		Return(models.User{ID: userID, FullName: "Test User", Email: "test@mail.com"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", bearerFor(t, userID.String()))
	rec := do(router, req)

	body := rec.Body.String()
	if !strings.Contains(body, `"age":null`) {
		t.Fatalf("expected age:null in body, got %s", body)
	}
	if strings.Contains(body, "bloodGroup") {
		t.Fatalf("expected empty optional fields to be omitted, got %s", body)
	}
}

// Пользователь удалён администратором, токен ещё жив
func TestHandler_GetMe_NotFound(t *testing.T) {
	t.Parallel()

	router, users, _ := newTestRouter(t)

	userID := uuid.New()

	users.EXPECT().
		GetByID(gomock.Any(), userID).
		Return(models.User{}, serr.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", bearerFor(t, userID.String()))
	rec := do(router, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandler_UpdateMe_BadJSON(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/users/me", bytes.NewBufferString("{bad json"))
	req.Header.Set("Authorization", bearerFor(t, uuid.New().String()))
	rec := do(router, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

// Переданные поля меняются, неизвестные ключи молча игнорируются
func TestHandler_UpdateMe_PartialUpdate(t *testing.T) {
	t.Parallel()

	router, users, _ := newTestRouter(t)

	userID := uuid.New()
	age := 40

	users.EXPECT().
		UpdateProfile(gomock.Any(), userID, models.ProfileUpdate{Age: &age}).
		Return(models.User{ID: userID, FullName: "Test User", Email: "test@mail.com", Age: &age}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/users/me",
		bytes.NewBufferString(`{"age":40,"role":"admin","isVerified":true}`))
	req.Header.Set("Authorization", bearerFor(t, userID.String()))
	rec := do(router, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d, body=%q", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp models.PublicUser
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Age == nil || *resp.Age != 40 {
		t.Fatalf("expected age 40, got %v", resp.Age)
	}
}

// dateOfBirth разбирается из ISO-строки (и дата без времени тоже)
func TestHandler_UpdateMe_DateOfBirth(t *testing.T) {
	t.Parallel()

	router, users, _ := newTestRouter(t)

	userID := uuid.New()
	dob := time.Date(1996, 5, 12, 0, 0, 0, 0, time.UTC)

	users.EXPECT().
		UpdateProfile(gomock.Any(), userID, models.ProfileUpdate{DateOfBirth: &dob}).
		Return(models.User{ID: userID, FullName: "Test User", Email: "test@mail.com", DateOfBirth: &dob}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/users/me",
		bytes.NewBufferString(`{"dateOfBirth":"1996-05-12"}`))
	req.Header.Set("Authorization", bearerFor(t, userID.String()))
	rec := do(router, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d, body=%q", http.StatusOK, rec.Code, rec.Body.String())
	}
}

// Битая дата — 400 до похода в сервис
func TestHandler_UpdateMe_BadDate(t *testing.T) {
	t.Parallel()

	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/users/me",
		bytes.NewBufferString(`{"dateOfBirth":"12.05.1996"}`))
	req.Header.Set("Authorization", bearerFor(t, uuid.New().String()))
	rec := do(router, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}

	var resp api.ErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Message != "dateOfBirth must be a valid ISO 8601 date" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

// Новый email уже занят другим пользователем
func TestHandler_UpdateMe_EmailInUse(t *testing.T) {
	t.Parallel()

	router, users, _ := newTestRouter(t)

	userID := uuid.New()
	email := "taken@mail.com"

	users.EXPECT().
		UpdateProfile(gomock.Any(), userID, models.ProfileUpdate{Email: &email}).
		Return(models.User{}, serr.ErrEmailInUse)

	req := httptest.NewRequest(http.MethodPut, "/api/users/me",
		bytes.NewBufferString(`{"email":"taken@mail.com"}`))
	req.Header.Set("Authorization", bearerFor(t, userID.String()))
	rec := do(router, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

// Пустое тело {} — профиль возвращается без изменений
func TestHandler_UpdateMe_EmptyBody(t *testing.T) {
	t.Parallel()

	router, users, _ := newTestRouter(t)

	userID := uuid.New()
	age := 30

	users.EXPECT().
		GetByID(gomock.Any(), userID).
		Return(models.User{ID: userID, FullName: "Test User", Email: "test@mail.com", Age: &age}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/users/me", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", bearerFor(t, userID.String()))
	rec := do(router, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d, body=%q", http.StatusOK, rec.Code, rec.Body.String())
	}
}
