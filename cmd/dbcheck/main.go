// dbcheck 只確認設定中的資料庫能否連線
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"skincare/internal/config"
	"skincare/internal/database"

	"github.com/sirupsen/logrus"
)

const pingTimeout = 5 * time.Second

var (
	loadConfig = config.Load
	newPgxPool = database.NewPgxPool
	openSQLite = database.OpenSQLite
	exitFunc   = os.Exit
)

func check(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if cfg.Database.Driver == config.DriverSQLite {
		db, err := openSQLite(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		defer db.Close()
		return db.PingContext(ctx)
	}

	db, err := newPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()
	return db.Ping(ctx)
}

func run(ctx context.Context, log logrus.FieldLogger) error {
	cfg, err := loadConfig()
	if err != nil {
		log.WithError(err).Error("load config")
		return err
	}
	log = log.WithField("driver", cfg.Database.Driver)
	if err := check(ctx, cfg); err != nil {
		log.WithError(err).Error("database unreachable")
		return err
	}
	log.Info("database connection OK")
	return nil
}

func main() {
	if err := run(context.Background(), logrus.StandardLogger()); err != nil {
		exitFunc(1)
	}
}
