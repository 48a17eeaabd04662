// Package store keeps a local history of comparison runs in SQLite, so
// size regressions can be tracked across invocations.
package store

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mbedutils/codesize/pkg/size"
)

// Store persists run history.
type Store interface {
	Start(ctx context.Context) error
	Stop() error

	// SaveRun records a run together with its measurements.
	SaveRun(ctx context.Context, run *Run) error
	// ListRuns returns the most recent runs, newest first, without their
	// measurements.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}

// Compile-time interface check.
var _ Store = (*store)(nil)

type store struct {
	log  logrus.FieldLogger
	path string
	db   *gorm.DB
}

// NewStore creates a Store backed by the SQLite database at path.
func NewStore(log logrus.FieldLogger, path string) Store {
	return &store{
		log:  log.WithField("component", "store"),
		path: path,
	}
}

// Start opens the database and runs migrations.
func (s *store) Start(ctx context.Context) error {
	db, err := gorm.Open(sqlite.Open(s.path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}

	s.db = db

	if err := s.db.WithContext(ctx).AutoMigrate(&Run{}, &Measurement{}); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	s.log.WithField("path", s.path).Debug("History database ready")

	return nil
}

// Stop closes the database connection.
func (s *store) Stop() error {
	if s.db == nil {
		return nil
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("getting database handle: %w", err)
	}

	return sqlDB.Close()
}

// SaveRun records a run together with its measurements.
func (s *store) SaveRun(ctx context.Context, run *Run) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run

	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	return runs, nil
}

// MeasurementsFromReportSet flattens a report set into measurement rows
// for persistence, preserving artifact and object order.
func MeasurementsFromReportSet(set *size.ReportSet) []Measurement {
	var measurements []Measurement

	for _, artifact := range size.Artifacts {
		report := set.Artifact(artifact)
		if report == nil {
			continue
		}

		for _, name := range report.Names() {
			sz, _ := report.Get(name)
			measurements = append(measurements, Measurement{
				Revision: set.Revision,
				Artifact: string(artifact),
				Object:   name,
				Text:     sz.Text,
				Data:     sz.Data,
				BSS:      sz.BSS,
				Total:    sz.Total,
			})
		}
	}

	return measurements
}
