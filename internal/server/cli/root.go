// Package cli реализует административный командный интерфейс сервера MedNet
// (бинарь mednetctl).
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку серверного конфига и открытие подключения к БД;
//   - выполнение административных операций, которые HTTP API
//     намеренно не выставляет (миграции, удаление пользователя).
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/mednet/internal/server/config"
)

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ConfigPath — путь к server.yaml (тот же конфиг, что и у сервера).
	ConfigPath string
	// Cfg — загруженный конфиг. Заполняется в PersistentPreRunE.
	Cfg *config.Config
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// В PersistentPreRunE загружаются .env и серверный конфиг —
// команды работают с той же базой, что и сам сервер.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "mednetctl",
		Short: "MedNet admin CLI — административные операции над сервером",
		Long: `MedNet admin CLI.

Команды:
  migrate      Применить миграции БД
  user delete  Удалить пользователя (каскадно с его записями)

Примеры:

Миграции:
  mednetctl migrate

Удаление пользователя:
  mednetctl user delete 7a0a4a6a-a7bf-42c0-8cdf-2be8583d180e
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env может и отсутствовать — это не ошибка
			_ = godotenv.Load()

			cfg, err := config.Load(app.ConfigPath)
			if err != nil {
				return err
			}
			cfg.ApplyEnvOverrides()
			app.Cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "./configs/server.yaml", "путь к server.yaml")

	cmd.AddCommand(Migrate(app))
	cmd.AddCommand(User(app))

	return cmd
}

// Execute запускает root-команду. При ошибке процесс завершается с кодом 1.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
