// Package store persists finished runs to a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one finished game
type Run struct {
	ID        uint      `gorm:"primaryKey"`
	StartedAt time.Time `gorm:"index"`
	EndedAt   time.Time
	Score     uint64 `gorm:"index"`
	Merges    int64
	Reason    string `gorm:"size:64"`
}

// Duration returns the wall-clock length of the run
func (r Run) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// History is the run table
type History struct {
	db    *gorm.DB
	sqlDB *sql.DB
	log   zerolog.Logger
}

// Open opens or creates the history database at path; an empty path keeps it in memory
func Open(path string, log zerolog.Logger) (*History, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open history %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes writers
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(&Run{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	h := &History{db: db, sqlDB: sqlDB, log: log.With().Str("component", "store").Logger()}
	if path == "" {
		h.log.Debug().Msg("using in-memory history")
	} else {
		h.log.Info().Str("path", path).Msg("using history database")
	}
	return h, nil
}

// Record stores a finished run and fills its ID
func (h *History) Record(ctx context.Context, run *Run) error {
	if err := h.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	h.log.Debug().Uint("id", run.ID).Uint64("score", run.Score).Str("reason", run.Reason).Msg("run recorded")
	return nil
}

// Best returns the highest scoring run; earliest wins ties
func (h *History) Best(ctx context.Context) (Run, bool, error) {
	var run Run
	err := h.db.WithContext(ctx).Order("score DESC").Order("started_at ASC").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("best run: %w", err)
	}
	return run, true, nil
}

// Recent returns up to n runs, newest first
func (h *History) Recent(ctx context.Context, n int) ([]Run, error) {
	var runs []Run
	if err := h.db.WithContext(ctx).Order("started_at DESC").Order("id DESC").Limit(n).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("recent runs: %w", err)
	}
	return runs, nil
}

// Count returns the number of recorded runs
func (h *History) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := h.db.WithContext(ctx).Model(&Run{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// Close releases the database
func (h *History) Close() error {
	return h.sqlDB.Close()
}
