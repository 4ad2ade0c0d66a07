package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quiz-platform/quiz-service/internal/config"
	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/quiz-platform/quiz-service/pkg"
)

// NewMigrateCmd applies the database schema.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations()
		},
	}
}

func runMigrations() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return err
	}
	defer pkg.CloseDatabase(db)

	if err := db.AutoMigrate(&models.Quiz{}, &models.Result{}); err != nil {
		return err
	}

	logger.Info("Migrations applied")
	return nil
}
