package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/armonia-saas/access-service-go/internal/config"
	"github.com/armonia-saas/access-service-go/internal/repository"
)

// SweepJob periodically folds overdue ACTIVE passes into EXPIRED and prunes
// old read notifications. It runs once on start and then on every tick.
type SweepJob struct {
	passRepo         repository.AccessPassRepository
	notificationRepo repository.NotificationRepository
	interval         time.Duration
	done             chan struct{}
}

func NewSweepJob(
	passRepo repository.AccessPassRepository,
	notificationRepo repository.NotificationRepository,
	interval time.Duration,
) *SweepJob {
	return &SweepJob{
		passRepo:         passRepo,
		notificationRepo: notificationRepo,
		interval:         interval,
		done:             make(chan struct{}),
	}
}

func (j *SweepJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("sweep job started")
}

func (j *SweepJob) Stop() {
	close(j.done)
	log.Info().Msg("sweep job stopped")
}

func (j *SweepJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.sweep()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *SweepJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	j.runSweep(ctx, "overdue passes", func(ctx context.Context) (int64, error) {
		return j.passRepo.ExpireOverdue(ctx, time.Now())
	})
	j.runSweep(ctx, "stale notifications", func(ctx context.Context) (int64, error) {
		return j.notificationRepo.DeleteReadBefore(ctx, time.Now().Add(-config.NotificationRetention))
	})
}

func (j *SweepJob) runSweep(ctx context.Context, name string, fn func(context.Context) (int64, error)) {
	count, err := fn(ctx)
	if err != nil {
		log.Error().Err(err).Msgf("failed to sweep %s", name)
	} else if count > 0 {
		log.Info().Int64("count", count).Msgf("swept %s", name)
	}
}
