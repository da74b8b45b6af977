package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MetricType — тип показателя здоровья.
type MetricType string

// Канонические типы метрик. Всё, что приходит от клиента,
// приводится к одному из этих четырёх значений.
const (
	TypeHeartRate     MetricType = "heartRate"
	TypeBloodPressure MetricType = "bloodPressure"
	TypeTemperature   MetricType = "temperature"
	TypeBloodSugar    MetricType = "bloodSugar"
)

// CanonicalTypes — канонические типы в фиксированном порядке.
// Порядок важен для latest-per-type: ответ собирается по нему.
var CanonicalTypes = []MetricType{
	TypeHeartRate,
	TypeBloodPressure,
	TypeTemperature,
	TypeBloodSugar,
}

// typeAliases — легаси-написания, которые присылают старые версии клиента.
var typeAliases = map[string]MetricType{
	"heart_rate":     TypeHeartRate,
	"blood_pressure": TypeBloodPressure,
	"blood_sugar":    TypeBloodSugar,
	"sugar":          TypeBloodSugar,
}

// NormalizeType приводит тип метрики к каноническому виду.
//
// Алиасы (heart_rate, blood_pressure, blood_sugar, sugar) маппятся
// на канонические значения, всё остальное возвращается как есть —
// валидность проверяет слой validation.
func NormalizeType(t string) MetricType {
	if canonical, ok := typeAliases[t]; ok {
		return canonical
	}
	return MetricType(t)
}

// IsCanonical сообщает, является ли тип одним из четырёх канонических.
func (t MetricType) IsCanonical() bool {
	switch t {
	case TypeHeartRate, TypeBloodPressure, TypeTemperature, TypeBloodSugar:
		return true
	}
	return false
}

// HealthRecord — одна запись показателя здоровья.
//
// Записи иммутабельны: после создания не обновляются и не удаляются
// через API (каскадное удаление возможно только вместе с пользователем).
type HealthRecord struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Type   MetricType
	Value  float64
	Unit   *string
	// Timestamp — время события, задаёт клиент (не время вставки)
	Timestamp time.Time
	// AdditionalData — произвольный JSON от клиента, хранится в JSONB как есть
	AdditionalData json.RawMessage
	CreatedAt      time.Time
}

// HistoryFilter — опциональные фильтры выборки истории.
// nil означает "фильтр не задан". Границы дат включительные.
type HistoryFilter struct {
	Type      *MetricType
	StartDate *time.Time
	EndDate   *time.Time
}
