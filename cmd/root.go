package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Harsh-0z/civic-flow-backend/cmd/users"
	"github.com/Harsh-0z/civic-flow-backend/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "civicflow",
	Short: "CivicFlow backend server",
	Long: `CivicFlow backend serves the citizen issue-reporting API with
stateless JWT authentication and role-based access control.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		users.SetConfig(cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(users.UsersCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
