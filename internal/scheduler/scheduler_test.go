package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-sync/internal/scheduler"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func noopJob(ctx context.Context) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────

func TestSetup_ExpresionInvalida(t *testing.T) {
	_, err := scheduler.Setup("cada madrugada", noopJob, testLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "expresión cron")
}

func TestSetup_ExponeScheduleYProximoDisparo(t *testing.T) {
	handle, err := scheduler.Setup("0 0 * * *", noopJob, testLogger())
	require.NoError(t, err)
	defer handle.Stop()

	assert.Equal(t, "0 0 * * *", handle.Schedule())

	next := handle.NextRun()
	require.False(t, next.IsZero())
	assert.Equal(t, 0, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
}

// Un tick dispara el job sin bloquear el timer del cron.
func TestSetup_DisparaElJob(t *testing.T) {
	fired := make(chan struct{}, 2)
	handle, err := scheduler.Setup("@every 10ms", func(ctx context.Context) error {
		fired <- struct{}{}
		return nil
	}, testLogger())
	require.NoError(t, err)
	defer handle.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("el job nunca se disparó")
	}
}

func TestStop_NoDisparaDespuesDeDetenido(t *testing.T) {
	fired := make(chan struct{}, 16)
	handle, err := scheduler.Setup("@every 10ms", func(ctx context.Context) error {
		fired <- struct{}{}
		return nil
	}, testLogger())
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("el job nunca se disparó")
	}
	handle.Stop()

	// Drenar lo que haya quedado en vuelo y verificar silencio posterior.
	time.Sleep(50 * time.Millisecond)
	for len(fired) > 0 {
		<-fired
	}
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fired, "tras Stop no deben llegar más disparos")
}
