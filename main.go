package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/rpupo63/portfolio-tracker-backend/api"
	"github.com/rpupo63/portfolio-tracker-backend/config"
	"github.com/rpupo63/portfolio-tracker-backend/database"
	"github.com/rpupo63/portfolio-tracker-backend/errs"
	"github.com/rpupo63/portfolio-tracker-backend/models"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	configureLogger(c)

	if config.NeedsSSM(c) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		client, err := config.NewSSMClient(ctx)
		if err == nil {
			err = config.ResolveSSM(ctx, c, client)
		}
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("Error resolving SSM parameters")
		}
	}

	shutdownTimeout, err := config.GetInt(c, "SHUTDOWN_TIMEOUT_SECONDS", 30)
	if err != nil {
		fatalStartup(err, "Invalid shutdown timeout")
	}

	currentDB, err := database.Open(c)
	if err != nil {
		fatalStartup(err, "Database connection failed")
	}
	log.Info().Str("dbType", config.GetString(c, "DB_TYPE", database.TypeSQLite)).Msg("Connected to database")

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		exitAfterTooling(currentDB, func() error {
			return models.GenerateModels(currentDB.Conn())
		})
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		exitAfterTooling(currentDB, func() error {
			_, err := models.GenerateColumnMismatchReport(currentDB.Conn())
			return err
		})
		return
	}

	if config.GetBool(c, "SEED_SAMPLE_DATA", false) {
		if _, err := currentDB.SeedSampleData(context.Background()); err != nil {
			log.Error().Err(err).Msg("Error inserting sample data")
		}
	}

	server, err := api.NewServer(currentDB, c)
	if err != nil {
		_ = currentDB.Close()
		fatalStartup(err, "Error initializing server")
	}

	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(time.Duration(shutdownTimeout) * time.Second)

	if err := currentDB.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	} else {
		log.Info().Msg("Database connection closed.")
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("received %s", <-c)
}

// fatalStartup exits on a startup failure, naming the offending setting when the cause is configuration.
func fatalStartup(err error, msg string) {
	var apiErr *errs.ApiErr
	if (errs.IsConfigError(err) || errs.IsEnvironmentVariableError(err)) && errors.As(err, &apiErr) {
		log.Fatal().Err(err).Str("setting", apiErr.Field).Msg("Invalid configuration")
	}
	log.Fatal().Err(err).Msg(msg)
}

// configureLogger sets the global zerolog level and output from LOG_LEVEL and LOG_FORMAT.
func configureLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(config.GetString(c, "LOG_FORMAT", "console"), "json") {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}

// exitAfterTooling runs a one-shot gorm tooling mode and closes the database.
func exitAfterTooling(db database.Database, run func() error) {
	defer db.Close()

	if db.Conn() == nil {
		log.Error().Msg("Model tooling needs a relational DB_TYPE")
		return
	}
	if err := run(); err != nil {
		log.Error().Err(err).Msg("Model tooling failed")
	}
}
