package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"umroh-system/internal/routes"
	"umroh-system/migrations"
	"umroh-system/pkg/config"
	"umroh-system/pkg/customvalidator"
	"umroh-system/pkg/database/postgresql"
	apperrors "umroh-system/pkg/errors"
	applogger "umroh-system/pkg/logger"
	"umroh-system/pkg/service"
	"umroh-system/pkg/utils"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Server.Debug)
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.MigrateOnStart {
		if err := runMigrations(cfg.Postgres.DSN); err != nil {
			logger.Fatal("migrasi database gagal", zap.Error(err))
		}
		logger.Info("migrasi database selesai")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	ds, err := postgresql.NewDataSource(ctx, cfg.Postgres, logger)
	cancel()
	if err != nil {
		logger.Fatal("tidak dapat terhubung ke PostgreSQL", zap.Error(err))
	}
	defer ds.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		// Redis only backs webhook dedup; the server still starts without it.
		logger.Warn("tidak dapat terhubung ke Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				utils.ErrorResponse(c, apperrors.Internal(err), logger)
			}
			return err
		},
	}))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		logger.Fatal("registrasi aturan validasi gagal", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	if err := routes.InitRouter(e, ds, redisClient, jwtSvc, cfg, logger); err != nil {
		logger.Fatal("inisialisasi router gagal", zap.Error(err))
	}

	go func() {
		logger.Info("server berjalan", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server berhenti", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown tidak bersih", zap.Error(err))
	}
	logger.Info("server dimatikan")
}

// runMigrations applies the embedded goose migrations through a throwaway
// database/sql connection; the pgx pools are opened afterwards.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
