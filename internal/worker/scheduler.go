package worker

import (
	"time"

	"github.com/rs/zerolog"
)

// Scheduler enqueues the recurring background jobs on a fixed interval.
// Workers pick them up from the queues; running the scheduler and the
// workers in separate processes is fine.
type Scheduler struct {
	queue    *JobQueue
	logger   zerolog.Logger
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewScheduler(queue *JobQueue, logger zerolog.Logger, interval time.Duration) *Scheduler {
	return &Scheduler{
		queue:    queue,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	go s.loop()
}

func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Scheduler) loop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.enqueueScheduled()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.enqueueScheduled()
		}
	}
}

func (s *Scheduler) enqueueScheduled() {
	if err := s.queue.Enqueue(QueueNotifications, JobTypeDueSoonScan, nil); err != nil {
		s.logger.Error().Err(err).Msg("failed to enqueue due-soon scan")
	}
	if err := s.queue.Enqueue(QueueCleanup, JobTypeSessionCleanup, nil); err != nil {
		s.logger.Error().Err(err).Msg("failed to enqueue session cleanup")
	}
}
