// Package models содержит доменные модели сервисного слоя:
// пользователь и его публичная проекция, частичное обновление профиля,
// типы метрик и записи показателей здоровья.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User — пользователь так, как он хранится в БД.
//
// PasswordHash наружу не отдаётся никогда — для ответов API
// используется проекция PublicUser.
type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PasswordHash string

	// Обязательные при регистрации, но в БД колонка nullable
	Age *int

	// Расширенный профиль — все поля опциональны
	ProfileImageURL          *string
	BloodGroup               *string
	Gender                   *string
	Height                   *float64
	Weight                   *float64
	PhoneNumber              *string
	DateOfBirth              *time.Time
	Allergies                *string
	Medications              *string
	MedicalConditions        *string
	EmergencyContactName     *string
	EmergencyContactPhone    *string
	EmergencyContactRelation *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser — публичная проекция пользователя для ответов API.
//
// Правила сериализации (их ждёт мобильный клиент):
//   - password_hash отсутствует в структуре вообще;
//   - незаполненные опциональные поля не сериализуются (omitempty);
//   - age — исключение: отдаётся как null, если не задан.
type PublicUser struct {
	ID                       string     `json:"id"`
	FullName                 string     `json:"fullName"`
	Email                    string     `json:"email"`
	Age                      *int       `json:"age"`
	ProfileImageURL          *string    `json:"profileImageUrl,omitempty"`
	BloodGroup               *string    `json:"bloodGroup,omitempty"`
	Gender                   *string    `json:"gender,omitempty"`
	Height                   *float64   `json:"height,omitempty"`
	Weight                   *float64   `json:"weight,omitempty"`
	PhoneNumber              *string    `json:"phoneNumber,omitempty"`
	DateOfBirth              *time.Time `json:"dateOfBirth,omitempty"`
	Allergies                *string    `json:"allergies,omitempty"`
	Medications              *string    `json:"medications,omitempty"`
	MedicalConditions        *string    `json:"medicalConditions,omitempty"`
	EmergencyContactName     *string    `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone    *string    `json:"emergencyContactPhone,omitempty"`
	EmergencyContactRelation *string    `json:"emergencyContactRelation,omitempty"`
}

// Public возвращает публичную проекцию пользователя.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:                       u.ID.String(),
		FullName:                 u.FullName,
		Email:                    u.Email,
		Age:                      u.Age,
		ProfileImageURL:          u.ProfileImageURL,
		BloodGroup:               u.BloodGroup,
		Gender:                   u.Gender,
		Height:                   u.Height,
		Weight:                   u.Weight,
		PhoneNumber:              u.PhoneNumber,
		DateOfBirth:              u.DateOfBirth,
		Allergies:                u.Allergies,
		Medications:              u.Medications,
		MedicalConditions:        u.MedicalConditions,
		EmergencyContactName:     u.EmergencyContactName,
		EmergencyContactPhone:    u.EmergencyContactPhone,
		EmergencyContactRelation: u.EmergencyContactRelation,
	}
}

// ProfileUpdate — типизированное частичное обновление профиля.
//
// nil означает "поле в запросе не передано, не трогаем".
// Набор полей — явный allow-list: всё, чего здесь нет,
// через PUT /api/users/me изменить нельзя.
type ProfileUpdate struct {
	FullName                 *string
	Email                    *string
	Age                      *int
	ProfileImageURL          *string
	BloodGroup               *string
	Gender                   *string
	Height                   *float64
	Weight                   *float64
	PhoneNumber              *string
	DateOfBirth              *time.Time
	Allergies                *string
	Medications              *string
	MedicalConditions        *string
	EmergencyContactName     *string
	EmergencyContactPhone    *string
	EmergencyContactRelation *string
}

// Empty сообщает, что ни одно распознанное поле не передано.
// В этом случае профиль возвращается без изменений.
func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.Email == nil && p.Age == nil &&
		p.ProfileImageURL == nil && p.BloodGroup == nil && p.Gender == nil &&
		p.Height == nil && p.Weight == nil && p.PhoneNumber == nil &&
		p.DateOfBirth == nil && p.Allergies == nil && p.Medications == nil &&
		p.MedicalConditions == nil && p.EmergencyContactName == nil &&
		p.EmergencyContactPhone == nil && p.EmergencyContactRelation == nil
}
