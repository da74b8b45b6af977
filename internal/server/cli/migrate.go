package cli

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/mednet/internal/server/config"
)

// Migrate создаёт CLI-команду применения миграций БД.
//
// Сервер применяет миграции и сам при старте (migrations.enabled),
// команда нужна чтобы инициализировать базу без запуска сервера —
// например в CI или перед первым деплоем.
//
// Пример использования:
//
//	mednetctl migrate
func Migrate(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции БД",
		Long: `Применяет миграции из migrations.path к базе из db.dsn.

Миграции идемпотентны: повторный запуск на актуальной базе ничего не меняет.
`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := sql.Open("pgx", app.Cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := config.RunMigrations(db, app.Cfg.Migrations.Path); err != nil {
				return err
			}

			cmd.Println("migrations applied")
			return nil
		},
	}
}
