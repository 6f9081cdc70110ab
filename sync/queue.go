package sync

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Queue decouples sync triggers from the interactive request path. A task
// mutation enqueues the user id and returns immediately; a single worker
// drains the queue and logs failures instead of swallowing them. A full
// queue drops the trigger — the scheduled batch sweep is the backstop.
type Queue struct {
	service *Service
	jobs    chan uuid.UUID
	done    chan struct{}
	logger  *logrus.Logger
}

// NewQueue creates a new sync queue
func NewQueue(service *Service, size int, logger *logrus.Logger) *Queue {
	return &Queue{
		service: service,
		jobs:    make(chan uuid.UUID, size),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	go q.loop()
}

// Enqueue submits a sync for the user without blocking. Returns false when
// the queue is full and the trigger was dropped.
func (q *Queue) Enqueue(userID uuid.UUID) bool {
	select {
	case q.jobs <- userID:
		return true
	default:
		q.logger.WithField("userId", userID).Warn("Sync queue full, dropping trigger; batch sweep will catch up")
		return false
	}
}

// Stop drains outstanding jobs and stops the worker.
func (q *Queue) Stop() {
	close(q.jobs)
	<-q.done
}

func (q *Queue) loop() {
	defer close(q.done)
	for userID := range q.jobs {
		result := q.service.SyncUserCalendar(context.Background(), userID)
		if !result.Success {
			q.logger.WithFields(logrus.Fields{
				"userId": userID,
				"error":  result.Error,
			}).Warn("Background sync failed")
		}
	}
}
