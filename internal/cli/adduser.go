package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/skvault/sleevekeeper/internal/server/models"
	"github.com/skvault/sleevekeeper/internal/server/repositories/repomanager"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// NewAddUserCommand registers an account without going through the HTTP API.
// The password is read from the terminal without echo.
func NewAddUserCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add-user <username>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			cmd.Print("Enter password: ")
			pw, err := readPassword(int(os.Stdin.Fd()))
			cmd.Println()
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if len(pw) == 0 {
				return fmt.Errorf("password must not be empty")
			}

			hash, err := bcrypt.GenerateFromPassword(pw, bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			db, err := sql.Open("pgx", opts.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			defer db.Close()

			rm := repomanager.NewPostgresRepositoryManager()
			user, err := rm.Users(db).Create(cmd.Context(), &models.User{
				Username:     username,
				PasswordHash: string(hash),
			})
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}

			cmd.Printf("created user %q (id=%d)\n", user.Username, user.ID)
			return nil
		},
	}
}
