package cli

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/mednet/internal/server/repository"
)

// User создаёт группу команд для работы с пользователями.
func User(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Административные операции над пользователями",
	}
	cmd.AddCommand(UserDelete(app))
	return cmd
}

// UserDelete создаёт CLI-команду удаления пользователя.
//
// Пользователи через HTTP API не удаляются никогда — это сугубо
// административная операция. Записи health_data удаляются каскадно
// на уровне БД (FK ON DELETE CASCADE), осиротевших записей не остаётся.
//
// Пример использования:
//
//	mednetctl user delete 7a0a4a6a-a7bf-42c0-8cdf-2be8583d180e
func UserDelete(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить пользователя и каскадно все его записи",
		Long: `Удаляет пользователя по UUID вместе со всеми его записями
показателей здоровья (каскад на уровне БД).

Пример:
  mednetctl user delete <uuid>
`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}

			db, err := sql.Open("pgx", app.Cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewUsersRepository(db)
			if err := repo.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete user %s: %w", id, err)
			}

			cmd.Printf("deleted user %s (health records removed by cascade)\n", id)
			return nil
		},
	}
}
