// Package scheduler runs periodic leaderboard refreshes on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pool-edge/internal/logger"
	"github.com/yourusername/pool-edge/internal/scenario"
)

const (
	jobTimeout      = 10 * time.Minute
	gracefulTimeout = 30 * time.Second
)

var errRunning = errors.New("scheduler is running")

// LeaderboardRefresher recomputes a week's leaderboard. Week 0 means the
// latest week with picks.
type LeaderboardRefresher interface {
	Leaderboard(ctx context.Context, week int) (*scenario.Leaderboard, error)
}

// refreshJob is one scheduled week; it implements cron.Job.
type refreshJob struct {
	s    *Scheduler
	week int
}

func (j refreshJob) Run() { j.s.refresh(j.week) }

// Scheduler owns a UTC cron instance whose only jobs are leaderboard refreshes.
type Scheduler struct {
	cron      *cron.Cron
	refresher LeaderboardRefresher
	log       *logrus.Entry

	mu        sync.RWMutex
	running   bool
	onRefresh func(*scenario.Leaderboard)
}

// NewScheduler creates a new scheduler
func NewScheduler(refresher LeaderboardRefresher, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		refresher: refresher,
		log:       logger.OrDiscard(log).WithField("component", "scheduler"),
	}
}

// OnRefresh registers a callback for every successfully refreshed board.
func (s *Scheduler) OnRefresh(fn func(*scenario.Leaderboard)) {
	s.mu.Lock()
	s.onRefresh = fn
	s.mu.Unlock()
}

// ScheduleLeaderboardRefresh adds a refresh of week on the standard cron
// expression expr. Jobs can only be added while stopped.
func (s *Scheduler) ScheduleLeaderboardRefresh(expr string, week int) (cron.EntryID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return 0, fmt.Errorf("cannot schedule job: %w", errRunning)
	}

	id, err := s.cron.AddJob(expr, refreshJob{s: s, week: week})
	if err != nil {
		return 0, fmt.Errorf("failed to add job: %w", err)
	}
	s.log.WithFields(logrus.Fields{"cron": expr, "week": week, "job_id": id}).
		Info("Scheduled leaderboard refresh")
	return id, nil
}

func (s *Scheduler) refresh(week int) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	board, err := s.refresher.Leaderboard(ctx, week)
	if err != nil {
		s.log.WithError(err).WithField("week", week).Error("Leaderboard refresh failed")
		return
	}
	s.log.WithFields(logrus.Fields{
		"week":     board.Week,
		"players":  board.TotalPlayers,
		"duration": time.Since(start).String(),
	}).Info("Leaderboard refresh completed")

	s.mu.RLock()
	fn := s.onRefresh
	s.mu.RUnlock()
	if fn != nil {
		fn(board)
	}
}

// Start begins firing jobs. At least one job must be scheduled.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errRunning
	}
	jobs := len(s.cron.Entries())
	if jobs == 0 {
		return errors.New("no jobs scheduled")
	}

	s.cron.Start()
	s.running = true
	s.log.WithField("jobs", jobs).Info("Scheduler started")
	return nil
}

// Stop waits up to gracefulTimeout for an in-flight refresh.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	select {
	case <-s.cron.Stop().Done():
		s.log.Info("Scheduler stopped")
		return nil
	case <-time.After(gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %s", gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// GetNextRun is the earliest upcoming fire time, zero while stopped.
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return time.Time{}
	}

	var next time.Time
	for _, e := range s.cron.Entries() {
		if next.IsZero() || (!e.Next.IsZero() && e.Next.Before(next)) {
			next = e.Next
		}
	}
	return next
}

// Entries returns a snapshot of the scheduled jobs.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// RemoveJob unschedules id. Only allowed while stopped.
func (s *Scheduler) RemoveJob(id cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("cannot remove job: %w", errRunning)
	}
	s.cron.Remove(id)
	s.log.WithField("job_id", id).Info("Removed job")
	return nil
}
