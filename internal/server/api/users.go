// HTTP-хендлеры профиля пользователя
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/IvanChernomyrdin/mednet/internal/server/middleware"
	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	"github.com/IvanChernomyrdin/mednet/internal/server/validation"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// UpdateProfileRequest — частичное обновление профиля.
//
// Каждое поле — указатель: nil означает "не передано, не менять".
// Это явный allow-list изменяемых полей: любые другие ключи в JSON
// молча игнорируются при декодировании.
type UpdateProfileRequest struct {
	FullName                 *string  `json:"fullName"`
	Email                    *string  `json:"email"`
	Age                      *int     `json:"age"`
	ProfileImageURL          *string  `json:"profileImageUrl"`
	BloodGroup               *string  `json:"bloodGroup"`
	Gender                   *string  `json:"gender"`
	Height                   *float64 `json:"height"`
	Weight                   *float64 `json:"weight"`
	PhoneNumber              *string  `json:"phoneNumber"`
	DateOfBirth              *string  `json:"dateOfBirth"` // ISO 8601
	Allergies                *string  `json:"allergies"`
	Medications              *string  `json:"medications"`
	MedicalConditions        *string  `json:"medicalConditions"`
	EmergencyContactName     *string  `json:"emergencyContactName"`
	EmergencyContactPhone    *string  `json:"emergencyContactPhone"`
	EmergencyContactRelation *string  `json:"emergencyContactRelation"`
}

// toModel переводит запрос в типизированное обновление.
// dateOfBirth разбирается из ISO-строки.
func (r UpdateProfileRequest) toModel() (models.ProfileUpdate, error) {
	upd := models.ProfileUpdate{
		FullName:                 r.FullName,
		Email:                    r.Email,
		Age:                      r.Age,
		ProfileImageURL:          r.ProfileImageURL,
		BloodGroup:               r.BloodGroup,
		Gender:                   r.Gender,
		Height:                   r.Height,
		Weight:                   r.Weight,
		PhoneNumber:              r.PhoneNumber,
		Allergies:                r.Allergies,
		Medications:              r.Medications,
		MedicalConditions:        r.MedicalConditions,
		EmergencyContactName:     r.EmergencyContactName,
		EmergencyContactPhone:    r.EmergencyContactPhone,
		EmergencyContactRelation: r.EmergencyContactRelation,
	}

	if r.DateOfBirth != nil {
		t, err := validation.ParseISOTime(*r.DateOfBirth)
		if err != nil {
			return models.ProfileUpdate{}, &validation.Error{
				Messages: []string{"dateOfBirth must be a valid ISO 8601 date"},
			}
		}
		upd.DateOfBirth = &t
	}

	return upd, nil
}

// GetMe возвращает профиль текущего пользователя.
//
// Ответы:
//   - 200 OK: публичный профиль;
//   - 401 Unauthorized: нет/битый токен;
//   - 404 Not Found: пользователя нет (например удалён администратором).
//
// @Summary      Get own profile
// @Description  Returns the authenticated user's profile (public view).
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.PublicUser
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      404 {object} ErrorResponse "Not found"
// @Router       /api/users/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	user, err := h.Svc.Users.GetByID(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrUnauthorized):
			WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		default:
			h.Log.Logger.Sugar().Errorw("get profile failed", "error", err, "user_id", userID)
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusOK, user)
}

// UpdateMe выполняет частичное обновление профиля текущего пользователя.
//
// Меняются только переданные поля из allow-list; пустое обновление
// возвращает профиль без изменений.
//
// Ответы:
//   - 200 OK: обновлённый публичный профиль;
//   - 400 Bad Request: неверный JSON, битая дата или занятый email;
//   - 401 Unauthorized: нет/битый токен;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Update own profile
// @Description  Partially updates the authenticated user's profile. Unknown fields are ignored.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Fields to update"
// @Success      200 {object} models.PublicUser
// @Failure      400 {object} ErrorResponse "Bad JSON or email already in use"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/users/me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	upd, err := req.toModel()
	if err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	user, err := h.Svc.Users.UpdateProfile(r.Context(), userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrUnauthorized):
			WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		case errors.Is(err, serr.ErrEmailInUse):
			WriteError(w, http.StatusBadRequest, serr.ErrEmailInUse)
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		default:
			h.Log.Logger.Sugar().Errorw("update profile failed", "error", err, "user_id", userID)
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusOK, user)
}
