package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/vamsrich/sap-itsm-platform-sub000/internal/service"
)

// SweepWorker runs the periodic SLA re-evaluation sweep on a cron
// schedule. Each cycle runs to completion; there is no per-cycle
// cancellation beyond process shutdown.
type SweepWorker struct {
	sla       *service.SLAService
	scheduler *cron.Cron
	logger    *zap.Logger
}

// NewSweepWorker validates the cron expression and builds the worker.
func NewSweepWorker(sla *service.SLAService, spec string, logger *zap.Logger) (*SweepWorker, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid sweep cron expression %q: %w", spec, err)
	}

	w := &SweepWorker{
		sla:       sla,
		scheduler: cron.New(),
		logger:    logger,
	}
	if _, err := w.scheduler.AddFunc(spec, w.runOnce); err != nil {
		return nil, err
	}
	return w, nil
}

// Start begins scheduling sweep cycles.
func (w *SweepWorker) Start() {
	w.scheduler.Start()
	w.logger.Info("sla sweep scheduler started")
}

// Stop halts scheduling and waits for a running cycle to finish.
func (w *SweepWorker) Stop() {
	ctx := w.scheduler.Stop()
	<-ctx.Done()
	w.logger.Info("sla sweep scheduler stopped")
}

func (w *SweepWorker) runOnce() {
	now := time.Now().UTC()
	if err := w.sla.Sweep(context.Background(), now); err != nil {
		w.logger.Error("sla sweep failed", zap.Error(err))
	}
}
