package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Job es la operación que el scheduler dispara en cada tick.
type Job func(ctx context.Context) error

// Handle es el manejador explícito del cron: se construye con Setup, se
// consulta por estado y se detiene con Stop. Sin flags globales.
type Handle struct {
	cron     *cron.Cron
	schedule string
	entryID  cron.EntryID
	log      *logger.Logger
}

// Setup programa job con la expresión cron dada y arranca el timer.
// La invocación es fire-and-forget: el scheduler no espera a que el pipeline
// termine; si una corrida sigue en curso al siguiente tick, el disparo se
// registra como omitido y se reintenta en el tick posterior.
func Setup(schedule string, job Job, log *logger.Logger) (*Handle, error) {
	h := &Handle{
		cron:     cron.New(),
		schedule: schedule,
		log:      log.Component("scheduler"),
	}

	id, err := h.cron.AddFunc(schedule, func() {
		h.log.Info().Str("schedule", schedule).Msg("sincronización automática disparada")
		go func() {
			if err := job(context.Background()); err != nil {
				if errors.Is(err, domain.ErrSyncAlreadyRunning) {
					h.log.Warn().Msg("tick omitido: sincronización aún en curso")
					return
				}
				h.log.Error().Err(err).Msg("sincronización automática fallida")
			}
		}()
	})
	if err != nil {
		return nil, fmt.Errorf("expresión cron %q: %w", schedule, err)
	}
	h.entryID = id
	h.cron.Start()
	h.log.Info().Str("schedule", schedule).Msg("tarea cron configurada")
	return h, nil
}

// Schedule devuelve la expresión cron configurada.
func (h *Handle) Schedule() string {
	return h.schedule
}

// NextRun devuelve el próximo disparo programado.
func (h *Handle) NextRun() time.Time {
	return h.cron.Entry(h.entryID).Next
}

// Stop detiene el timer y espera a los callbacks en vuelo del propio cron.
func (h *Handle) Stop() {
	ctx := h.cron.Stop()
	<-ctx.Done()
	h.log.Info().Msg("scheduler detenido")
}
