package daemon

import (
	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/digiflydk/studio-sub001/internal/config"
	"github.com/digiflydk/studio-sub001/internal/db/dsn"
	"github.com/digiflydk/studio-sub001/internal/db/models"
)

// OpenDB connects to the configured database and migrates every model.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		dialector = postgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	case "", config.EngineMySQL:
		dialector = gormmysql.Open(dsn.Create(cfg))
	default:
		return nil, errors.Wrap(config.ErrUnsupportedEngine, cfg.DB.GormEngine)
	}

	level := gormlogger.Warn
	if cfg.DevMode {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err = db.AutoMigrate(models.All()...); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return db, nil
}
