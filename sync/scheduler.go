package sync

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Scheduler runs the batch sweep on a fixed interval. It is the
// authoritative retry path for syncs dropped by the fire-and-forget queue.
type Scheduler struct {
	service  *Service
	interval time.Duration
	logger   *logrus.Logger
	stop     chan struct{}
	done     chan struct{}
}

// NewScheduler creates a new batch sync scheduler
func NewScheduler(service *Service, interval time.Duration, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		service:  service,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Scheduler) Start() {
	go s.loop()
}

// Stop terminates the loop after any in-flight sweep finishes.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) loop() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-s.stop:
			return
		}
	}
}

func (s *Scheduler) runOnce() {
	results := s.service.SyncAllDueUsers(context.Background())

	var synced, failed int
	for _, r := range results {
		if r.Success {
			synced += r.SyncedCount
		} else {
			failed++
		}
	}
	s.logger.WithFields(logrus.Fields{
		"users":  len(results),
		"synced": synced,
		"failed": failed,
	}).Info("Batch calendar sync complete")
}
