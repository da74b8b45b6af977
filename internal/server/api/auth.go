// HTTP-хендлеры регистрации и входа
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// SignupRequest описывает тело запроса регистрации пользователя.
//
// age — указатель, чтобы отличать "не передан" от нуля:
// ноль лет — валидное значение.
type SignupRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Age      *int   `json:"age" validate:"required,gte=0,lte=150"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// AuthResponse — успешный ответ signup/login: токен + публичный
// вид пользователя (без password_hash).
type AuthResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// Signup обрабатывает регистрацию пользователя.
//
// Ответы:
//   - 201 Created: регистрация успешна, в теле токен и пользователь;
//   - 400 Bad Request: неверный JSON, невалидные поля (все нарушения
//     одним сообщением) или email уже занят;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Sign up
// @Description  Registers a new user and returns a bearer token with the public user view.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup request"
// @Success      201 {object} AuthResponse
// @Failure      400 {object} ErrorResponse "Validation failed or email already in use"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/auth/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	token, user, err := h.Svc.Auth.Signup(r.Context(), req.FullName, req.Email, req.Password, *req.Age)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrEmailInUse):
			WriteError(w, http.StatusBadRequest, serr.ErrEmailInUse)
		default:
			h.Log.Logger.Sugar().Errorw("signup failed", "error", err)
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login обрабатывает вход пользователя и выдачу токена.
//
// Неизвестный email и неверный пароль наружу неразличимы:
// в обоих случаях 401 с одинаковым сообщением.
//
// Ответы:
//   - 200 OK: успешный вход;
//   - 400 Bad Request: неверный JSON или невалидные поля;
//   - 401 Unauthorized: неверные учётные данные;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Log in
// @Description  Authenticates a user and returns a bearer token with the public user view.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} AuthResponse
// @Failure      400 {object} ErrorResponse "Validation failed"
// @Failure      401 {object} ErrorResponse "Invalid credentials"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	token, user, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrInvalidCredentials):
			WriteError(w, http.StatusUnauthorized, serr.ErrInvalidCredentials)
		default:
			h.Log.Logger.Sugar().Errorw("login failed", "error", err)
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}
