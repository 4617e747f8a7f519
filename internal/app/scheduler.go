package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pinger - реестр живых соединений, которому нужен периодический heartbeat
type Pinger interface {
	PingAll() int
	Users() int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	hub      Pinger
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(hub Pinger, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		hub:      hub,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("heartbeat_interval", s.interval))

	go s.runHeartbeatTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runHeartbeatTask периодически пингует живые каналы и убирает отвалившиеся
func (s *Scheduler) runHeartbeatTask(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.heartbeat()
		case <-s.stopChan:
			s.logger.Info("Heartbeat task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Heartbeat task cancelled")
			return
		}
	}
}

func (s *Scheduler) heartbeat() {
	dropped := s.hub.PingAll()
	if dropped > 0 {
		s.logger.Info("Dropped dead live channels",
			zap.Int("dropped", dropped),
			zap.Int("users_online", s.hub.Users()))
	}
}
