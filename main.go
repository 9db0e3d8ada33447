package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ubbbj/laptop-rental/cmd"
	"github.com/ubbbj/laptop-rental/internal/core/container"
	"github.com/ubbbj/laptop-rental/internal/core/logger"
	"github.com/ubbbj/laptop-rental/internal/core/routes"
	"github.com/ubbbj/laptop-rental/internal/database"
	"github.com/ubbbj/laptop-rental/internal/database/migration"
	"github.com/ubbbj/laptop-rental/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() {
	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}
}

func main() {
	// Subcommands (e.g. "laptop-rental migrate") are handled by cobra.
	if len(os.Args) > 1 {
		cmd.Execute()
		return
	}

	zapLogger := logger.NewLogger()
	defer func() { _ = zapLogger.Sync() }()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		zapLogger.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		zapLogger.Fatal("Unable to connect to the database", zap.Error(err))
	}
	defer db.Close()

	zapLogger.Info("Connected to the database successfully")

	migrationsDir := os.Getenv("MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := migration.Migrate(dbURL, fmt.Sprintf("file://%s", migrationsDir), zapLogger); err != nil {
		zapLogger.Fatal("Database migration failed", zap.Error(err))
	}

	appContainer := container.NewAppContainer(db, zapLogger)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.RequestIDMiddleware())

	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)
	routes.RegisterUtilityRoutes(router)

	appHost := os.Getenv("APP_HOST")
	if appHost == "" {
		appHost = ":8080"
	}

	if err := router.Run(appHost); err != nil {
		zapLogger.Fatal("HTTP server terminated", zap.Error(err))
	}
}
