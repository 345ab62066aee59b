// Package scheduler runs the periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// VolunteerCompleter closes opportunities whose date has passed.
type VolunteerCompleter interface {
	CompletePast(now time.Time) (int64, error)
}

// BadgeAwarder grants threshold badges.
type BadgeAwarder interface {
	AwardBadges() (int, error)
}

type Scheduler struct {
	cron       *cron.Cron
	volunteers VolunteerCompleter
	users      BadgeAwarder
	now        func() time.Time
}

// New registers the maintenance jobs on spec, a six-field cron expression
// with a leading seconds field.
func New(spec string, volunteers VolunteerCompleter, users BadgeAwarder) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		volunteers: volunteers,
		users:      users,
		now:        time.Now,
	}

	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("failed to schedule maintenance jobs: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Println("Scheduler started")
}

// Stop prevents new runs. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	ctx := s.cron.Stop()
	log.Println("Scheduler stopped")
	return ctx
}

// RunOnce runs every job immediately. A failing job is logged and does not
// prevent the others.
func (s *Scheduler) RunOnce() {
	if completed, err := s.volunteers.CompletePast(s.now()); err != nil {
		log.Printf("scheduler: complete volunteer opportunities: %v", err)
	} else if completed > 0 {
		log.Printf("scheduler: marked %d volunteer opportunities completed", completed)
	}

	if awarded, err := s.users.AwardBadges(); err != nil {
		log.Printf("scheduler: award badges: %v", err)
	} else if awarded > 0 {
		log.Printf("scheduler: awarded badges to %d users", awarded)
	}
}
