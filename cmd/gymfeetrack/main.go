package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gymfeetrack/gymfeetrack/internal/app"
	"github.com/gymfeetrack/gymfeetrack/internal/config"
	"github.com/gymfeetrack/gymfeetrack/internal/db"
	"github.com/joho/godotenv"

	log "github.com/sirupsen/logrus"
)

// main runs the CLI entrypoint and exits on unrecoverable command errors.
func main() {
	if errRun := run(os.Args[1:]); errRun != nil {
		log.WithError(errRun).Error("command failed")
		os.Exit(1)
	}
}

// run parses flags, loads config, and starts the server or a one-shot
// maintenance command.
func run(args []string) error {
	fs := flag.NewFlagSet("gymfeetrack", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "config file path (or env CONFIG_PATH)")
	port := fs.Int("port", 8090, "server port")
	createAdmin := fs.String("create-admin", "", "seed a gym admin account as username:password and exit")
	migrateOnly := fs.Bool("migrate", false, "run database migrations and exit")
	if errParse := fs.Parse(args); errParse != nil {
		return errParse
	}

	if errValidate := validatePort(*port); errValidate != nil {
		return errValidate
	}

	// Optional .env file for local development.
	_ = godotenv.Load()

	appCfg, err := config.LoadFromEnv()
	if err != nil {
		return err
	}
	if strings.TrimSpace(*cfgPath) != "" {
		appCfg.ConfigPath = config.ResolveConfigPath(*cfgPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *migrateOnly {
		return app.Migrate(ctx, appCfg)
	}

	if spec := strings.TrimSpace(*createAdmin); spec != "" {
		return runCreateAdmin(appCfg, spec)
	}

	return app.RunServer(ctx, appCfg, *port)
}

// runCreateAdmin seeds an admin account from a username:password spec.
func runCreateAdmin(cfg config.AppConfig, spec string) error {
	username, password, ok := strings.Cut(spec, ":")
	if !ok {
		return fmt.Errorf("invalid -create-admin value, want username:password")
	}

	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errCreate := app.CreateAdminUser(conn, username, password); errCreate != nil {
		return errCreate
	}
	log.WithField("username", username).Info("gym admin created")
	return nil
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %d", port)
	}
	return nil
}
