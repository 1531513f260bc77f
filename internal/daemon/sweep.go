package daemon

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ExpiredEntrySweeper drops expired entries from a cache.
type ExpiredEntrySweeper interface {
	CleanupExpiredEntries() int
}

// Sweeper runs the periodic cleanup of expired permission cache entries.
// A Sweeper without schedule does nothing.
type Sweeper struct {
	cron  *cron.Cron
	cache ExpiredEntrySweeper
}

// NewSweeper schedules the cleanup of cache on schedule. An empty schedule
// disables the sweep.
func NewSweeper(schedule string, cache ExpiredEntrySweeper) (*Sweeper, error) {
	s := &Sweeper{cache: cache}

	if schedule == "" {
		return s, nil
	}

	s.cron = cron.New()

	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule cache sweep %q: %w", schedule, err)
	}

	return s, nil
}

// Sweep removes the expired entries once.
func (s *Sweeper) Sweep() {
	if removed := s.cache.CleanupExpiredEntries(); removed > 0 {
		log.Debug().Int("removed", removed).Msg("expired permission cache entries removed")
	}
}

// Start starts the scheduler.
func (s *Sweeper) Start() {
	if s.cron != nil {
		s.cron.Start()
	}
}

// Stop stops the scheduler and waits for a running sweep.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
