// Package cron runs the nightly review sweep: proposals sitting in
// UnderReview past the configured age are reported so an underwriter can
// pick them up. The sweep is read-only.
package cron

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/insurance-system/insurance-backend/internal/proposals/domain"
	"github.com/insurance-system/insurance-backend/internal/proposals/repository"
)

type Scheduler struct {
	repo     repository.ProposalStore
	schedule string
	maxAge   time.Duration
	cron     *cron.Cron
}

func NewScheduler(repo repository.ProposalStore, schedule string, maxAge time.Duration) *Scheduler {
	return &Scheduler{repo: repo, schedule: schedule, maxAge: maxAge}
}

// Start registers the sweep and launches the cron loop.
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(s.schedule, s.sweep)
	if err != nil {
		log.Printf("[error] operation=review_sweep err=failed to register cron job: %v", err)
		return
	}

	log.Printf("[info] operation=review_sweep schedule=%q max_age=%s", s.schedule, s.maxAge)
	c.Start()
	s.cron = c
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	list, err := s.repo.GetByStatus(ctx, domain.StatusUnderReview)
	if err != nil {
		log.Printf("[error] operation=review_sweep err=%v", err)
		return
	}

	cutoff := time.Now().UTC().Add(-s.maxAge)
	stale := 0
	for _, p := range list {
		if p.CreatedAt.Before(cutoff) {
			stale++
			log.Printf("[warn] operation=review_sweep proposal_id=%s age=%s", p.ID, time.Since(p.CreatedAt).Round(time.Hour))
		}
	}

	log.Printf("[info] operation=review_sweep under_review=%d stale=%d", len(list), stale)
}
