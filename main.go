package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/cms-backend/api"
	"github.com/rpupo63/cms-backend/config"
	"github.com/rpupo63/cms-backend/database"
	"github.com/rpupo63/cms-backend/models"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)
	log.Info().Msg("Initializing app...")

	dbConfig, err := database.ConfigFromEnv(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid database configuration")
	}
	dbConfig.Logger = database.NewLogger(
		config.GetDuration(c, "DB_SLOW_THRESHOLD", 10*time.Second),
		gormLogLevel(config.GetString(c, "DB_LOG_LEVEL", "warn")),
	)

	log.Info().Str("driver", dbConfig.Driver).Int("replicas", len(dbConfig.ReplicaDSNs)).Msg("Connecting to database...")
	db, err := database.Open(dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Model generation failed")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReport(db)
		return
	}

	currentDB := database.New(db)

	if config.GetBool(c, "AUTO_MIGRATE", dbConfig.Driver == database.DriverSQLite) {
		log.Info().Msg("Migrating schema...")
		if err := currentDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
	}

	jwtSecret, err := resolveJWTSecret(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Could not resolve JWT secret")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, jwtSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogging configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.GetString(c, "LOG_FORMAT", "console") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func gormLogLevel(name string) logger.LogLevel {
	switch strings.ToLower(name) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// resolveJWTSecret reads JWT_SECRET, or the SSM parameter named by JWT_SECRET_SSM_PARAMETER
func resolveJWTSecret(c map[string]string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reader config.ParameterReader
	if config.GetString(c, "JWT_SECRET_SSM_PARAMETER", "") != "" {
		client, err := config.NewSSMReader(ctx, config.GetString(c, "AWS_REGION", ""))
		if err != nil {
			return "", err
		}
		reader = client
	}
	return config.ResolveSecret(ctx, c, "JWT_SECRET", reader)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
