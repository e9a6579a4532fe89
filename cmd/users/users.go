package users

import (
	"github.com/spf13/cobra"

	"github.com/Harsh-0z/civic-flow-backend/internal/config"
)

var cfg *config.Config

// SetConfig hands the loaded configuration to this command group.
func SetConfig(c *config.Config) {
	cfg = c
}

// UsersCmd groups user management subcommands.
var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "User management commands",
}
