// @title        SkinCare API
// @version      1.0
// @description  SkinCare 註冊與靜態頁面後端
// @host         localhost:8085
// @BasePath     /
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skincare/internal/cache"
	"skincare/internal/config"
	"skincare/internal/database"
	"skincare/internal/flash"
	"skincare/internal/handler"
	"skincare/internal/logging"
	mw "skincare/internal/middleware"
	"skincare/internal/router"
	"skincare/internal/service"
	"skincare/internal/store"
	"skincare/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	_ "skincare/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig            = config.Load
	newPgxPool            = database.NewPgxPool
	runMigrationsFn       = database.RunMigrations
	openSQLite            = database.OpenSQLite
	runSQLiteMigrationsFn = database.RunSQLiteMigrations
	newRedisClient        = cache.NewRedisClient
	newWorkerPool         = worker.NewPool
	startServer           = serve
	logOutput             = io.Writer(os.Stderr)
	exitFunc              = os.Exit
)

// serve 啟動 HTTP server，ctx 結束時優雅關閉
func serve(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}

// userBackend 依 database.driver 建立使用者儲存與其健康檢查
func userBackend(ctx context.Context, cfg config.Config) (service.UserStore, handler.Check, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		if err := runSQLiteMigrationsFn(cfg.Database.Path); err != nil {
			return nil, handler.Check{}, nil, fmt.Errorf("Migration 執行失敗: %w", err)
		}
		db, err := openSQLite(cfg.Database.Path)
		if err != nil {
			return nil, handler.Check{}, nil, fmt.Errorf("SQLite 開啟失敗: %w", err)
		}
		users := store.NewSQLiteUsers(db)
		return users, handler.Check{Name: "database", Ping: users.Ping}, func() { closeSQL(db) }, nil
	default:
		db, err := newPgxPool(ctx, cfg.Database.URL)
		if err != nil {
			return nil, handler.Check{}, nil, fmt.Errorf("DB 連線失敗: %w", err)
		}
		if err := runMigrationsFn(cfg.Database.URL); err != nil {
			db.Close()
			return nil, handler.Check{}, nil, fmt.Errorf("Migration 執行失敗: %w", err)
		}
		return store.NewPostgresUsers(db), handler.Check{Name: "database", Ping: db.Ping}, db.Close, nil
	}
}

func closeSQL(db *sql.DB) { _ = db.Close() }

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}

	log, err := logging.New(cfg.Log.Level, logOutput)
	if err != nil {
		return err
	}

	users, dbCheck, closeDB, err := userBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()
	checks := []handler.Check{dbCheck}

	var flashes flash.Store
	switch cfg.Flash.Store {
	case config.FlashRedis:
		rc, err := newRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("Redis 連線失敗: %w", err)
		}
		defer rc.Close()
		checks = append(checks, handler.Check{
			Name: "cache",
			Ping: func(ctx context.Context) error { return rc.Ping(ctx).Err() },
		})
		flashes = flash.NewRedisStore(rc, cfg.Flash.TTL)
	default:
		flashes = flash.NewCookieStore(cfg.Flash.Secret, cfg.Flash.TTL)
	}

	wp := newWorkerPool(cfg.Worker.Count)
	defer wp.Stop()

	validate := service.NewValidator()
	reg := service.NewRegistration(users, service.NewPooledHasher(wp), validate, log)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validate
	e.Debug = cfg.Server.Debug
	e.Use(middleware.Recover())
	e.Use(mw.RequestLogger(log))

	router.Setup(e, router.Deps{
		Registrar:  reg,
		Flash:      flashes,
		Checks:     checks,
		StaticRoot: cfg.Static.Root,
		Log:        log,
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	log.WithFields(logrus.Fields{
		"addr":   cfg.Server.Addr,
		"driver": cfg.Database.Driver,
		"flash":  cfg.Flash.Store,
	}).Info("SkinCare service starting")
	return startServer(ctx, e, cfg.Server.Addr)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		logrus.WithError(err).Error("service exited")
		exitFunc(1)
	}
}
