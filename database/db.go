package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GiovaTC/HEXA-IBM/apperr"
	"github.com/GiovaTC/HEXA-IBM/config"
	"github.com/GiovaTC/HEXA-IBM/logging"
	"github.com/GiovaTC/HEXA-IBM/models"
)

// Store persists trig records. It owns the connection pool; callers borrow a
// single connection per orchestrated call through Connection.
type Store struct {
	db        *gorm.DB
	procedure string
	logger    *zap.Logger
}

// Open connects to the configured database and, when AutoMigrate is set,
// bootstraps the schema.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	const op = "open database"

	var dialector gorm.Dialector
	dsn := cfg.ConnectionString()
	switch cfg.Driver {
	case config.DriverSQLite:
		if !strings.Contains(dsn, "?") {
			dsn += "?_busy_timeout=5000"
		}
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, apperr.Newf(apperr.KindInvalidConfiguration, op, "unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logging.Gorm(logger)})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, op, err)
	}

	store, err := New(db, cfg.Procedure, logger)
	if err != nil {
		closeDB(db)
		return nil, err
	}
	logger.Info("Database connected", zap.String("driver", cfg.Driver))

	if cfg.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			closeDB(db)
			return nil, err
		}
	}
	return store, nil
}

// New wraps an already opened gorm handle. procedure is the name of the
// confirmation routine invoked by Finalize.
func New(db *gorm.DB, procedure string, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("database: nil gorm handle")
	}
	if procedure == "" {
		procedure = DefaultProcedure
	}
	if !procedurePattern.MatchString(procedure) {
		return nil, apperr.Newf(apperr.KindInvalidConfiguration, "open database", "invalid procedure name %q", procedure)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, procedure: procedure, logger: logger}, nil
}

// Migrate creates the records table and, on postgres, the confirmation routine.
func (s *Store) Migrate(ctx context.Context) error {
	const op = "migrate"
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&models.TrigRecord{}); err != nil {
		return apperr.Wrap(apperr.KindStorage, op, err)
	}
	if s.db.Dialector.Name() == config.DriverPostgres {
		if err := db.Exec(procedureDDL(s.procedure)).Error; err != nil {
			return apperr.Wrap(apperr.KindStorage, op, fmt.Errorf("create %s: %w", s.procedure, err))
		}
	}
	s.logger.Info("Database migration completed", zap.String("procedure", s.procedure))
	return nil
}

// DB exposes the gorm handle for tests and advanced callers.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
