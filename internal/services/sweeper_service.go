// internal/services/sweeper_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ImageReferences reports which stored image names are still in use.
type ImageReferences interface {
	ReferencedImages(ctx context.Context) (map[string]bool, error)
}

// OrphanSweeper removes stored images no product points at. Files newer
// than the grace period are skipped so an upload whose row is still being
// written is never collected.
type OrphanSweeper struct {
	files FileStore
	refs  ImageReferences
	grace time.Duration
	now   func() time.Time

	cron *cron.Cron
}

func NewOrphanSweeper(files FileStore, refs ImageReferences, grace time.Duration) *OrphanSweeper {
	return &OrphanSweeper{
		files: files,
		refs:  refs,
		grace: grace,
		now:   time.Now,
	}
}

// Sweep runs one pass and returns the names it removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) ([]string, error) {
	stored, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored files: %w", err)
	}

	refs, err := s.refs.ReferencedImages(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Add(-s.grace)
	var removed []string
	for _, f := range stored {
		if refs[f.Name] || f.ModTime.After(cutoff) {
			continue
		}
		if err := s.files.Delete(ctx, f.Name); err != nil && !errors.Is(err, ErrFileNotFound) {
			logrus.WithError(err).WithField("file", f.Name).Warn("Failed to remove orphaned image")
			continue
		}
		removed = append(removed, f.Name)
	}
	return removed, nil
}

// Start schedules Sweep on a cron spec such as "@every 1h".
func (s *OrphanSweeper) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed, err := s.Sweep(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Orphan image sweep failed")
			return
		}
		if len(removed) > 0 {
			logrus.WithField("files", removed).Info("Removed orphaned images")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	s.cron = c
	c.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *OrphanSweeper) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
