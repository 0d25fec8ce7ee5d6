package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skvault/sleevekeeper/internal/server/repositories/repomanager"
)

// NewMigrateCommand creates the schema and applies pending migrations.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := sql.Open("pgx", opts.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer db.Close()

			rm := repomanager.NewPostgresRepositoryManager()
			if err := rm.RunMigrations(cmd.Context(), db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}

			cmd.Println("database schema is up to date")
			return nil
		},
	}
}
