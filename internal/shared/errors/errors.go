// Package errors содержит общие доменные ошибки приложения.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import "errors"

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные (email не найден или пароль не совпал —
	// наружу разницу не раскрываем)
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("Internal Server Error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован
	ErrUnauthorized = errors.New("Unauthorized")
	// Email уже зарегистрирован
	ErrEmailInUse = errors.New("Email already in use")
	// Ресурс не найден
	ErrNotFound = errors.New("Not Found")
)
