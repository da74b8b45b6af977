package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/mednet/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - liveness-проба /healthz и swagger — без аутентификации;
//   - публичные эндпоинты аутентификации под префиксом /api/auth;
//   - middleware логирования для всех запросов;
//   - группу защищённых JWT эндпоинтов: профиль и показатели здоровья.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware())

	// liveness-проба
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Публичные пути
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
	})

	// защищённые пути
	r.Group(func(r chi.Router) {
		// проверка bearer-токена
		r.Use(h.Verifier.AuthMiddleware())

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/me", h.GetMe)
			r.Put("/me", h.UpdateMe)
		})

		r.Route("/api/health", func(r chi.Router) {
			r.Get("/current", h.GetCurrent)  // последние показатели (квирк с плоским ответом)
			r.Get("/history", h.GetHistory)  // история с фильтрами, без пагинации
			r.Post("/submit", h.SubmitHealth)
			r.Get("/{type}", h.GetByType) // постраничная выдача по типу
		})
	})

	return r
}
