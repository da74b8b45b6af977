// Package config содержит также инициализацию подключения к базе данных.
//
// OpenDB выполняет:
//   - открытие соединения с PostgreSQL (через драйвер pgx);
//   - настройку пула соединений;
//   - проверку доступности базы (Ping);
//   - применение миграций (golang-migrate) при старте сервера.
//
// Хэндл *sql.DB возвращается вызывающему и передаётся в репозитории
// явно — глобального состояния пакет не держит.
package config

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"
)

// OpenDB открывает подключение к базе данных, проверяет его доступность
// и применяет миграции (если migrations.enabled).
//
// Миграции идемпотентны (create if not exists), поэтому повторный запуск
// на уже инициализированной базе безопасен: migrate.ErrNoChange не считается
// ошибкой. Закрыть соединение обязан вызывающий.
func OpenDB(cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		return nil, fmt.Errorf("открытие базы: %w", err)
	}

	if cfg.DB.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}
	if cfg.DB.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("проверка соединения с базой: %w", err)
	}

	if cfg.Migrations.Enabled {
		if err := RunMigrations(db, cfg.Migrations.Path); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// RunMigrations применяет миграции из указанного источника (file://...).
//
// Вынесено отдельно, чтобы админская команда migrate могла прогнать
// миграции без старта сервера.
func RunMigrations(db *sql.DB, sourceURL string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("создание драйвера миграций: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("создание миграций: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("применение миграций: %w", err)
	}
	return nil
}
