package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kubev2v/vsphere-inventory-generator/internal/config"
)

const dbTypePostgres = "pgsql"

// InitDB opens the database the db emitter loads tables into: postgres when DB_TYPE is
// pgsql, otherwise the sqlite file named by DB_NAME.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	log := zap.S().Named("gorm")

	gormLogger := logger.New(zap.NewStdLog(zap.L().Named("gorm")), logger.Config{
		SlowThreshold:             5 * time.Second,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	})

	db, err := gorm.Open(dialector(cfg), &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Database.Type, err)
	}

	if cfg.Database.Type == dbTypePostgres {
		log.Infof("connected to postgres at %s:%s", cfg.Database.Hostname, cfg.Database.Port)
	} else {
		log.Debugf("opened sqlite database %s", cfg.Database.Name)
	}
	return db, nil
}

func dialector(cfg *config.Config) gorm.Dialector {
	if cfg.Database.Type != dbTypePostgres {
		return sqlite.Open(cfg.Database.Name)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s",
		cfg.Database.Hostname, cfg.Database.Port, cfg.Database.User, cfg.Database.Password)
	if cfg.Database.Name != "" {
		dsn += " dbname=" + cfg.Database.Name
	}
	return postgres.Open(dsn)
}
