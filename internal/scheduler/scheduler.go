// Package scheduler ejecuta el rollover diario de apertura con cron.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jhoicas/stockflow-api/internal/application/stock"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// Scheduler programa el rollover diario (quantity -> opening_quantity).
type Scheduler struct {
	cron       *cron.Cron
	rolloverUC *stock.RolloverUseCase
	spec       string
	log        *logger.Logger
}

// NewScheduler construye el scheduler. spec es una expresión cron de 5 campos
// (por defecto "0 0 * * *": medianoche).
func NewScheduler(rolloverUC *stock.RolloverUseCase, spec string, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		rolloverUC: rolloverUC,
		spec:       spec,
		log:        log.Named("scheduler"),
	}
}

// Start registra el job y arranca el cron.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runRollover); err != nil {
		return err
	}
	s.log.Info().Str("spec", s.spec).Msg("scheduler iniciado")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine el job en curso.
func (s *Scheduler) Stop() {
	s.log.Info().Msg("deteniendo scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runRollover() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	if err := s.rolloverUC.Run(ctx); err != nil {
		s.log.Error().Err(err).Msg("rollover diario falló")
		return
	}
	s.log.Info().Dur("elapsed", time.Since(start)).Msg("rollover diario completado")
}
