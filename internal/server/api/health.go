// HTTP-хендлеры записей показателей здоровья
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/IvanChernomyrdin/mednet/internal/server/middleware"
	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
	"github.com/IvanChernomyrdin/mednet/internal/server/validation"
	serr "github.com/IvanChernomyrdin/mednet/internal/shared/errors"
)

// SubmitHealthRequest описывает тело запроса отправки показателя.
//
// type принимает канонические значения и легаси-алиасы старых клиентов.
// value — указатель, чтобы required отличал отсутствие от нуля.
type SubmitHealthRequest struct {
	Type           string          `json:"type" validate:"required,oneof=heartRate bloodPressure temperature bloodSugar heart_rate blood_pressure blood_sugar sugar"`
	Value          *float64        `json:"value" validate:"required"`
	Unit           *string         `json:"unit"`
	Timestamp      string          `json:"timestamp" validate:"required,iso8601"`
	AdditionalData json.RawMessage `json:"additionalData"`
}

// HealthRecordResponse — запись показателя в ответах API.
//
// additionalData отдаётся только в постраничной выдаче по типу —
// остальные выборки его не возвращают (так ждёт клиент).
type HealthRecordResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Type           string          `json:"type"`
	Value          float64         `json:"value"`
	Unit           *string         `json:"unit"`
	Timestamp      time.Time       `json:"timestamp"`
	AdditionalData json.RawMessage `json:"additionalData,omitempty"`
}

// toRecordResponse собирает ответ из доменной записи.
// withAdditional управляет отдачей additionalData.
func toRecordResponse(rec models.HealthRecord, withAdditional bool) HealthRecordResponse {
	resp := HealthRecordResponse{
		ID:        rec.ID.String(),
		UserID:    rec.UserID.String(),
		Type:      string(rec.Type),
		Value:     rec.Value,
		Unit:      rec.Unit,
		Timestamp: rec.Timestamp,
	}
	if withAdditional {
		resp.AdditionalData = rec.AdditionalData
	}
	return resp
}

func toRecordResponses(recs []models.HealthRecord, withAdditional bool) []HealthRecordResponse {
	out := make([]HealthRecordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecordResponse(rec, withAdditional))
	}
	return out
}

// CurrentFlatResponse — «плоский» ответ /current: имя типа -> последнее значение.
type CurrentFlatResponse struct {
	HeartRate     float64 `json:"heartRate"`
	BloodPressure float64 `json:"bloodPressure"`
	Temperature   float64 `json:"temperature"`
	BloodSugar    float64 `json:"bloodSugar"`
}

// RecordListResponse — ответ-список: {"data": [...]}.
type RecordListResponse struct {
	Data []HealthRecordResponse `json:"data"`
}

// RecordPageResponse — постраничный ответ выборки по типу.
type RecordPageResponse struct {
	Data   []HealthRecordResponse `json:"data"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
}

// SubmitHealth сохраняет новую запись показателя текущего пользователя.
//
// Ответы:
//   - 201 Created: сохранённая запись;
//   - 400 Bad Request: неверный JSON или невалидные поля (все нарушения
//     одним сообщением);
//   - 401 Unauthorized: нет/битый токен;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Submit health record
// @Description  Stores a new immutable health metric record. Legacy type aliases are normalized.
// @Tags         health
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubmitHealthRequest true "Health record"
// @Success      201 {object} HealthRecordResponse
// @Failure      400 {object} ErrorResponse "Validation failed"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/health/submit [post]
func (h *Handler) SubmitHealth(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	var req SubmitHealthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	// после validate разбор не может упасть
	timestamp, err := validation.ParseISOTime(req.Timestamp)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := h.Svc.Health.Submit(r.Context(), userID, req.Type, *req.Value, req.Unit, timestamp, req.AdditionalData)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrUnauthorized):
			WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		case errors.Is(err, serr.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		default:
			h.Log.Logger.Sugar().Errorw("submit health failed", "error", err, "user_id", userID)
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, toRecordResponse(rec, false))
}

// GetCurrent возвращает последние показатели текущего пользователя.
//
// Форма ответа зависит от полноты данных: если есть записи ВСЕХ четырёх
// канонических типов — отдаётся плоский объект "тип -> последнее значение",
// иначе список имеющихся последних записей {"data": [...]}.
// Мобильный клиент зависит от этого поведения, менять его нельзя.
//
// @Summary      Current metrics
// @Description  Returns the latest record per metric type. Responds with a flattened
// @Description  object when all four types have data, otherwise with a record list.
// @Tags         health
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} CurrentFlatResponse
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/health/current [get]
func (h *Handler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	latest, err := h.Svc.Health.LatestPerType(r.Context(), userID)
	if err != nil {
		if errors.Is(err, serr.ErrUnauthorized) {
			WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
			return
		}
		h.Log.Logger.Sugar().Errorw("get current failed", "error", err, "user_id", userID)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		return
	}

	byType := make(map[models.MetricType]models.HealthRecord, len(latest))
	for _, rec := range latest {
		byType[rec.Type] = rec
	}

	if len(byType) == len(models.CanonicalTypes) {
		WriteJSON(w, http.StatusOK, CurrentFlatResponse{
			HeartRate:     byType[models.TypeHeartRate].Value,
			BloodPressure: byType[models.TypeBloodPressure].Value,
			Temperature:   byType[models.TypeTemperature].Value,
			BloodSugar:    byType[models.TypeBloodSugar].Value,
		})
		return
	}

	WriteJSON(w, http.StatusOK, RecordListResponse{Data: toRecordResponses(latest, false)})
}

// GetHistory возвращает историю записей под опциональными фильтрами
// type/startDate/endDate (границы дат включительные), без пагинации.
//
// @Summary      History
// @Description  Returns all records matching the optional type and date-range filters.
// @Tags         health
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "Metric type (canonical or legacy alias)"
// @Param        startDate query string false "ISO 8601 inclusive lower bound"
// @Param        endDate query string false "ISO 8601 inclusive upper bound"
// @Success      200 {object} RecordListResponse
// @Failure      400 {object} ErrorResponse "Validation failed"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/health/history [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	q := r.URL.Query()
	filter, err := validation.ParseHistoryFilter(q.Get("type"), q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	records, err := h.Svc.Health.History(r.Context(), userID, filter)
	if err != nil {
		if errors.Is(err, serr.ErrUnauthorized) {
			WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
			return
		}
		h.Log.Logger.Sugar().Errorw("get history failed", "error", err, "user_id", userID)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		return
	}

	WriteJSON(w, http.StatusOK, RecordListResponse{Data: toRecordResponses(records, false)})
}

// GetByType возвращает страницу записей одного типа.
//
// Тип из path нормализуется (алиасы допустимы) и проверяется по закрытому
// множеству; limit/offset валидируются с дефолтами 10/0. Нарушения типа
// и пагинации агрегируются в одно сообщение.
//
// @Summary      List records by type
// @Description  Returns a page of records of one metric type, newest first,
// @Description  with the total count for the same filter.
// @Tags         health
// @Produce      json
// @Security     BearerAuth
// @Param        type path string true "Metric type (canonical or legacy alias)"
// @Param        limit query int false "Page size, 1-100 (default 10)"
// @Param        offset query int false "Offset, >= 0 (default 0)"
// @Success      200 {object} RecordPageResponse
// @Failure      400 {object} ErrorResponse "Validation failed"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/health/{type} [get]
func (h *Handler) GetByType(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	// собираем нарушения типа и пагинации в один ответ
	var messages []string

	typ, typeErr := validation.ParseMetricType(chi.URLParam(r, "type"))
	if typeErr != nil {
		messages = append(messages, typeErr.(*validation.Error).Messages...)
	}

	q := r.URL.Query()
	limit, offset, pageErr := validation.ParsePagination(q.Get("limit"), q.Get("offset"))
	if pageErr != nil {
		messages = append(messages, pageErr.(*validation.Error).Messages...)
	}

	if len(messages) > 0 {
		WriteError(w, http.StatusBadRequest, &validation.Error{Messages: messages})
		return
	}

	records, total, err := h.Svc.Health.ListByType(r.Context(), userID, typ, limit, offset)
	if err != nil {
		if errors.Is(err, serr.ErrUnauthorized) {
			WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
			return
		}
		h.Log.Logger.Sugar().Errorw("list by type failed", "error", err, "user_id", userID, "type", string(typ))
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		return
	}

	WriteJSON(w, http.StatusOK, RecordPageResponse{
		Data:   toRecordResponses(records, true),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}
