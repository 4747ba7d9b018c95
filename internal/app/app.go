// Package app boots the gym membership API server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymfeetrack/gymfeetrack/internal/config"
	"github.com/gymfeetrack/gymfeetrack/internal/db"
	"github.com/gymfeetrack/gymfeetrack/internal/http/api"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
	"github.com/gymfeetrack/gymfeetrack/internal/security"
	"gorm.io/gorm"

	log "github.com/sirupsen/logrus"
)

// RunServer boots the API server with database-backed components and blocks
// until the context is cancelled.
func RunServer(ctx context.Context, cfg config.AppConfig, port int) error {
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

	jwtCfg, _ := config.LoadJWTConfig(configPath)
	if strings.TrimSpace(jwtCfg.Secret) == "" {
		return errors.New("missing jwt secret (set `jwt.secret` in config file or JWT_SECRET)")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	api.RegisterRoutes(r, conn, jwtCfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if errServe := srv.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			errCh <- errServe
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return <-errCh
	case errServe := <-errCh:
		return errServe
	}
}

// Migrate opens the database and runs migrations without serving.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// CreateAdminUser seeds an account with an admin-flagged profile. The account
// and profile are created in one transaction, keeping the one-profile-per-
// account invariant.
func CreateAdminUser(conn *gorm.DB, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("missing admin username")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("missing admin password")
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return fmt.Errorf("hash password: %w", errHash)
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		var count int64
		if errCount := tx.Model(&models.User{}).
			Where("username = ?", username).
			Count(&count).Error; errCount != nil {
			return errCount
		}
		if count > 0 {
			return fmt.Errorf("username %q already exists", username)
		}
		user := models.User{Username: username, Password: hash}
		if errCreate := tx.Create(&user).Error; errCreate != nil {
			return errCreate
		}
		profile := models.UserProfile{
			UserID:        user.ID,
			DateOfJoining: time.Now().UTC().Truncate(24 * time.Hour),
			IsGymAdmin:    true,
		}
		return tx.Create(&profile).Error
	})
}
