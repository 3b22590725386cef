// Package scheduler ejecuta tareas periódicas del servicio (barrido de créditos vencidos).
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// OverdueMarker pasa a MOROSO los créditos activos vencidos. Lo implementa *credit.LedgerUseCase.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, now time.Time) (int, error)
}

// Scheduler administra las tareas programadas.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	marker  OverdueMarker
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// New construye el scheduler. Con spec vacío el barrido queda deshabilitado.
// Se usa el parser estándar de cron (5 campos: min, hora, día, mes, día de semana).
func New(spec string, marker OverdueMarker, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		spec:    spec,
		marker:  marker,
		timeout: 5 * time.Minute,
		log:     log,
		now:     time.Now,
	}
}

// Start programa el barrido y arranca el cron. Devuelve false si está deshabilitado.
func (s *Scheduler) Start() (bool, error) {
	if s.spec == "" {
		s.log.Info().Msg("barrido de vencidos deshabilitado")
		return false, nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.sweep); err != nil {
		return false, fmt.Errorf("programar barrido %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.log.Info().Str("cron", s.spec).Msg("scheduler iniciado")
	return true, nil
}

// Stop detiene el cron y espera a que termine el barrido en curso (o a que ctx expire).
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler detenido con barrido en curso")
	}
}

// RunOnce ejecuta un barrido inmediato.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	return s.marker.MarkOverdue(ctx, s.now())
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.RunOnce(ctx)
	if err != nil {
		s.log.Error().Err(err).Int("marcados", n).Msg("barrido de vencidos falló")
		return
	}
	s.log.Info().Int("marcados", n).Dur("duracion", time.Since(start)).Msg("barrido de vencidos completado")
}
