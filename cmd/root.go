package cmd

import (
	"fmt"
	"os"

	"github.com/ubbbj/laptop-rental/internal/core/logger"
	"github.com/ubbbj/laptop-rental/internal/database"
	"github.com/ubbbj/laptop-rental/internal/database/migration"
	"github.com/ubbbj/laptop-rental/internal/repository"
	"github.com/ubbbj/laptop-rental/internal/users"

	"github.com/spf13/cobra"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations manually.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		migrationDir, _ := cmd.Flags().GetString("dir")

		err := migration.Migrate(
			dbURL,
			fmt.Sprintf("file://%s", migrationDir),
			logger.NewLogger(),
		)
		if err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}

		return nil
	},
}

// CreateAdminCmd zakłada pierwsze konto administratora; bez niego świeża
// instalacja nie ma jak się zalogować (rejestracja wymaga roli admin).
var CreateAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Seed the first admin account.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbURL := os.Getenv("DATABASE_URL")
		if dbURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}

		db, err := database.NewPostgresConnection(dbURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		fullname, _ := cmd.Flags().GetString("fullname")

		userRepo := users.NewRepository(repository.NewRepository(db))
		created, err := users.SeedAdmin(userRepo, username, password, fullname)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		if !created {
			fmt.Printf("Konto %s już istnieje, nic do zrobienia\n", username)
			return nil
		}

		fmt.Printf("Utworzono konto administratora %s\n", username)
		return nil
	},
}

func Execute() {
	rootCmd := &cobra.Command{
		Use:   "laptop-rental",
		Short: "Laptop rental tracking service",
	}
	MigrateCmd.Flags().String("dir", "migrations", "Directory containing the migration files")
	CreateAdminCmd.Flags().String("username", "admin", "Admin account username")
	CreateAdminCmd.Flags().String("password", "admin123", "Admin account password")
	CreateAdminCmd.Flags().String("fullname", "Administrator", "Admin account full name")
	rootCmd.AddCommand(MigrateCmd)
	rootCmd.AddCommand(CreateAdminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
