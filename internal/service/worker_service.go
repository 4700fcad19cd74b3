package service

import (
	"context"
	"time"

	"nursing-home-backend/internal/metrics"

	"go.uber.org/zap"
)

// WorkerService periodically recomputes ward occupancy and publishes it as
// the bed gauges.
type WorkerService struct {
	transfers *TransferService
	metrics   *metrics.Metrics
	logger    *zap.Logger
	interval  time.Duration
}

func NewWorkerService(transfers *TransferService, m *metrics.Metrics, logger *zap.Logger, interval time.Duration) *WorkerService {
	return &WorkerService{
		transfers: transfers,
		metrics:   m,
		logger:    logger.Named("occupancy-worker"),
		interval:  interval,
	}
}

// Start runs until ctx is cancelled. A non-positive interval returns at once.
func (w *WorkerService) Start(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("Background worker started", zap.Duration("interval", w.interval))
	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Background worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

// refresh recomputes the gauges from a fresh snapshot. Failures keep the
// previous values.
func (w *WorkerService) refresh(ctx context.Context) {
	rooms, err := w.transfers.ListRoomsWithOccupancy(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Warn("Failed to refresh occupancy", zap.Error(err))
		}
		return
	}

	occupied, available := 0, 0
	for _, r := range rooms {
		occupied += r.OccupiedBeds
		available += r.AvailableBeds
	}
	w.metrics.SetBedCounts(occupied, available)
	w.logger.Debug("Occupancy refreshed", zap.Int("occupied", occupied), zap.Int("available", available))
}
