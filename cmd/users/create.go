package users

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"

	"github.com/spf13/cobra"

	"github.com/Harsh-0z/civic-flow-backend/internal/auth"
	"github.com/Harsh-0z/civic-flow-backend/internal/db/bunx"
	"github.com/Harsh-0z/civic-flow-backend/internal/repository"
	"github.com/Harsh-0z/civic-flow-backend/internal/services/iam"
)

var (
	emailFlag      string
	passwordFlag   string
	roleFlag       string
	departmentFlag string
	stdinFlag      bool
)

// createCmd bootstraps accounts directly against the store, bypassing the
// HTTP signup gate. This is how the first admin gets created.
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if emailFlag == "" {
			return fmt.Errorf("--email flag is required")
		}
		if _, err := mail.ParseAddress(emailFlag); err != nil {
			return fmt.Errorf("invalid email format: %w", err)
		}

		role, err := auth.ParseRole(roleFlag)
		if err != nil {
			return fmt.Errorf("invalid role: %w", err)
		}

		password := passwordFlag
		if stdinFlag {
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}
		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		db, err := bunx.NewDB(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		userRepo := repository.NewBunUserRepository(db)
		iamService := iam.NewService(userRepo, auth.NewTokenCodec(cfg.JWTSecret), cfg.AdminSignupToken)

		user, err := iamService.Register(context.Background(), iam.RegisterParams{
			Email:      emailFlag,
			Password:   password,
			Role:       role,
			Department: departmentFlag,
			// Direct store access already implies operator trust.
			AdminToken: cfg.AdminSignupToken,
		})
		if err != nil {
			if errors.Is(err, iam.ErrDuplicateIdentity) {
				return fmt.Errorf("user %s already exists", emailFlag)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Printf("Created user %s with role %s\n", user.Email, user.Role)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&emailFlag, "email", "", "Email address (login identity)")
	createCmd.Flags().StringVar(&passwordFlag, "password", "", "Password (prefer --stdin)")
	createCmd.Flags().StringVar(&roleFlag, "role", string(auth.RoleCitizen), "Role: CITIZEN, OFFICIAL or ADMIN")
	createCmd.Flags().StringVar(&departmentFlag, "department", "", "Department (officials only)")
	createCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read password from stdin")

	UsersCmd.AddCommand(createCmd)
}
