// Package validation выполняет схемную проверку входящих данных
// до вызова сервисного слоя.
//
// Пакет отвечает за:
//   - валидацию тел запросов по validate-тегам (go-playground/validator);
//   - разбор и валидацию query/path-параметров (пагинация, фильтры истории);
//   - агрегацию ошибок: в ответ попадает одно сообщение со ВСЕМИ
//     нарушенными ограничениями, а не только первым.
package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/IvanChernomyrdin/mednet/internal/server/service/models"
)

// Error — ошибка валидации с полным списком нарушений.
// HTTP-слой отдаёт её текст как есть со статусом 400.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, "; ")
}

// newError — хелпер для одиночных и множественных нарушений.
func newError(messages ...string) *Error {
	return &Error{Messages: messages}
}

// Validator — обёртка над go-playground/validator с нашими правилами.
type Validator struct {
	v *validator.Validate
}

// New создаёт Validator.
//
// Регистрируется:
//   - имя поля из json-тега (в сообщениях фигурирует fullName, а не FullName);
//   - правило iso8601 для таймстампов.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := ParseISOTime(fl.Field().String())
		return err == nil
	})

	return &Validator{v: v}
}

// Struct валидирует структуру по её validate-тегам.
//
// При нарушениях возвращает *Error со всеми сообщениями
// (abortEarly не бывает — validator собирает весь список сам).
func (va *Validator) Struct(s any) error {
	err := va.v.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// не ошибка данных, а ошибка использования валидатора
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(fe))
	}
	return &Error{Messages: messages}
}

// message переводит нарушение в человекочитаемое сообщение.
func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "iso8601":
		return field + " must be a valid ISO 8601 date"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// ParseISOTime разбирает ISO-8601 таймстамп.
//
// Принимаются RFC3339 (с долями секунды и без) и дата без времени
// (YYYY-MM-DD, трактуется как полночь UTC — так же границу даты
// трактует и postgres при касте строки).
func ParseISOTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO 8601 date: %q", s)
}

// ParseMetricType нормализует и проверяет тип метрики.
//
// Сначала алиас приводится к каноническому виду, затем проверяется
// принадлежность к закрытому множеству. Так тип валидируется одинаково,
// откуда бы он ни пришёл — из path, query или body.
func ParseMetricType(raw string) (models.MetricType, error) {
	typ := models.NormalizeType(raw)
	if !typ.IsCanonical() {
		return "", newError("type must be one of [heartRate, bloodPressure, temperature, bloodSugar]")
	}
	return typ, nil
}

// Пагинация: limit 1..100 (дефолт 10), offset >= 0 (дефолт 0).
const (
	DefaultLimit  = 10
	MaxLimit      = 100
	DefaultOffset = 0
)

// ParsePagination разбирает limit/offset из query-строки.
// Пустые значения заменяются дефолтами. Все нарушения агрегируются.
func ParsePagination(limitRaw, offsetRaw string) (limit, offset int, err error) {
	limit, offset = DefaultLimit, DefaultOffset
	var messages []string

	if limitRaw != "" {
		n, convErr := strconv.Atoi(limitRaw)
		switch {
		case convErr != nil:
			messages = append(messages, "limit must be an integer")
		case n < 1:
			messages = append(messages, "limit must be greater than or equal to 1")
		case n > MaxLimit:
			messages = append(messages, "limit must be less than or equal to 100")
		default:
			limit = n
		}
	}

	if offsetRaw != "" {
		n, convErr := strconv.Atoi(offsetRaw)
		switch {
		case convErr != nil:
			messages = append(messages, "offset must be an integer")
		case n < 0:
			messages = append(messages, "offset must be greater than or equal to 0")
		default:
			offset = n
		}
	}

	if len(messages) > 0 {
		return 0, 0, &Error{Messages: messages}
	}
	return limit, offset, nil
}

// ParseHistoryFilter разбирает опциональные фильтры истории:
// type, startDate, endDate. Пустая строка — фильтр не задан.
// Все нарушения агрегируются в одну ошибку.
func ParseHistoryFilter(typeRaw, startRaw, endRaw string) (models.HistoryFilter, error) {
	var f models.HistoryFilter
	var messages []string

	if typeRaw != "" {
		typ, err := ParseMetricType(typeRaw)
		if err != nil {
			messages = append(messages, err.(*Error).Messages...)
		} else {
			f.Type = &typ
		}
	}

	if startRaw != "" {
		t, err := ParseISOTime(startRaw)
		if err != nil {
			messages = append(messages, "startDate must be a valid ISO 8601 date")
		} else {
			f.StartDate = &t
		}
	}

	if endRaw != "" {
		t, err := ParseISOTime(endRaw)
		if err != nil {
			messages = append(messages, "endDate must be a valid ISO 8601 date")
		} else {
			f.EndDate = &t
		}
	}

	if len(messages) > 0 {
		return models.HistoryFilter{}, &Error{Messages: messages}
	}
	return f, nil
}
