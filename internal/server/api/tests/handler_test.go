package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/mednet/internal/server/api"
	"github.com/IvanChernomyrdin/mednet/internal/server/config"
	"github.com/IvanChernomyrdin/mednet/internal/server/crypto"
	"github.com/IvanChernomyrdin/mednet/internal/server/middleware"
	"github.com/IvanChernomyrdin/mednet/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/mednet/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/mednet/internal/shared/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Issuer:    "issuer",
			Audience:  "audience",
			AccessTTL: 7 * 24 * time.Hour,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456", // >= 32
			},
		},
		Password: config.PasswordConfig{
			Hasher: "bcrypt",
			Bcrypt: config.BcryptConfig{
				// минимальный cost чтобы тесты не тормозили
				Cost: 4,
			},
		},
	}
}

// newTestRouter собирает полный HTTP-стек (роутер + middleware + хендлеры)
// на моках репозиториев: защищённые пути тестируются с настоящими токенами.
func newTestRouter(t *testing.T) (http.Handler, *svcmocks.MockUsersRepo, *svcmocks.MockHealthRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := svcmocks.NewMockUsersRepo(ctrl)
	health := svcmocks.NewMockHealthRepo(ctrl)

	cfg := testConfig()

	svc := service.NewServices(service.Repositories{Users: users, Health: health}, cfg)
	verifier := middleware.NewJWTVerifier(cfg.Auth.JWT.SigningKey, cfg.Auth.Issuer, cfg.Auth.Audience)
	log := logger.NewHTTPLogger()

	h := api.NewHandler(svc, log, verifier)
	return api.NewRouter(h), users, health
}

// bearerFor выпускает настоящий токен для userID — тем же ключом,
// что проверяет middleware.
func bearerFor(t *testing.T, userID string) string {
	t.Helper()

	cfg := testConfig()
	token, err := crypto.NewAccessToken(userID, crypto.JWTConfig{
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		SigningKey: cfg.Auth.JWT.SigningKey,
		AccessTTL:  cfg.Auth.AccessTTL,
	})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	return "Bearer " + token
}

// do прогоняет запрос через роутер и возвращает рекордер с ответом.
func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
