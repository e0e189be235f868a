package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stock-sync/internal/application/auth"
	"github.com/jhoicas/stock-sync/internal/application/dto"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	httpiface "github.com/jhoicas/stock-sync/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-sync/pkg/jwt"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

const testSecret = "secreto-de-prueba"

// fakePipeline implementa SyncRunner con desenlaces programables.
type fakePipeline struct {
	busy      bool
	allCalls  atomic.Int32
	retroArgs chan [2]string
}

func (f *fakePipeline) SyncAll(ctx context.Context) (*entity.SyncSummary, error) {
	f.allCalls.Add(1)
	return &entity.SyncSummary{Total: 1, Success: 1}, nil
}

func (f *fakePipeline) SyncRetrospective(ctx context.Context, startDate, endDate string) (*entity.SyncSummary, error) {
	if f.retroArgs != nil {
		f.retroArgs <- [2]string{startDate, endDate}
	}
	return &entity.SyncSummary{}, nil
}

func (f *fakePipeline) Busy() bool { return f.busy }

// fakeScheduler implementa SchedulerStatus con valores fijos.
type fakeScheduler struct {
	schedule string
	next     time.Time
}

func (f *fakeScheduler) Schedule() string   { return f.schedule }
func (f *fakeScheduler) NextRun() time.Time { return f.next }

type fakeUpstream struct{ healthy bool }

func (f *fakeUpstream) HealthCheck(ctx context.Context) bool { return f.healthy }

type fakeDB struct{ err error }

func (f *fakeDB) Ping(ctx context.Context) error { return f.err }

func newTestApp(t *testing.T, pipeline *fakePipeline) *fiber.App {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-operador"), bcrypt.MinCost)
	require.NoError(t, err)

	app := fiber.New()
	httpiface.Router(app, httpiface.RouterDeps{
		Pipeline: pipeline,
		AuthUC: auth.NewAuthUseCase(
			auth.OperatorCredentials{User: "operador", PasswordHash: string(hash)},
			auth.JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "stock-sync"},
		),
		Scheduler: &fakeScheduler{schedule: "0 0 * * *", next: time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)},
		Upstream:  &fakeUpstream{healthy: true},
		DB:        &fakeDB{},
		JWTSecret: testSecret,
		AppName:   "stock-sync",
		Log:       logger.New(logger.Config{Env: "production", Level: "error"}),
	})
	return app
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := pkgjwt.Generate(testSecret, "operador", "stock-sync", 5)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(method, path string, body any) *nethttp.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody[T any](t *testing.T, resp *nethttp.Response) T {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestToken_CredencialesValidas(t *testing.T) {
	app := newTestApp(t, &fakePipeline{})

	req := jsonRequest(nethttp.MethodPost, "/api/auth/token", dto.TokenRequest{User: "operador", Password: "clave-operador"})
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody[dto.TokenResponse](t, resp)
	require.NotEmpty(t, body.Token)

	user, err := pkgjwt.Parse(testSecret, body.Token)
	require.NoError(t, err)
	assert.Equal(t, "operador", user)
}

func TestToken_CredencialesInvalidas(t *testing.T) {
	app := newTestApp(t, &fakePipeline{})

	for _, in := range []dto.TokenRequest{
		{User: "operador", Password: "clave-equivocada"},
		{User: "otro", Password: "clave-operador"},
	} {
		resp, err := app.Test(jsonRequest(nethttp.MethodPost, "/api/auth/token", in))
		require.NoError(t, err)
		assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeBody[dto.ErrorResponse](t, resp).Code)
	}
}

func TestSync_RequiereToken(t *testing.T) {
	app := newTestApp(t, &fakePipeline{})

	// Sin header
	resp, err := app.Test(jsonRequest(nethttp.MethodPost, "/api/sync/manual", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", decodeBody[dto.ErrorResponse](t, resp).Code)

	// Token firmado con otro secreto
	ajeno, err := pkgjwt.Generate("otro-secreto", "operador", "stock-sync", 5)
	require.NoError(t, err)
	req := jsonRequest(nethttp.MethodPost, "/api/sync/manual", nil)
	req.Header.Set("Authorization", "Bearer "+ajeno)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeBody[dto.ErrorResponse](t, resp).Code)

	// Esquema distinto a Bearer
	req = jsonRequest(nethttp.MethodPost, "/api/sync/manual", nil)
	req.Header.Set("Authorization", "Basic abc")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeBody[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sincronización
// ──────────────────────────────────────────────────────────────────────────────

func TestManual_ArranqueAceptado(t *testing.T) {
	pipeline := &fakePipeline{}
	app := newTestApp(t, pipeline)

	req := jsonRequest(nethttp.MethodPost, "/api/sync/manual", nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusAccepted, resp.StatusCode)
	body := decodeBody[dto.SyncStartedResponse](t, resp)
	assert.Equal(t, "Sincronización iniciada", body.Message)
	assert.NotEmpty(t, body.Timestamp)

	// El pipeline arranca de forma asíncrona tras responder.
	assert.Eventually(t, func() bool { return pipeline.allCalls.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestManual_ConflictoSiYaCorre(t *testing.T) {
	pipeline := &fakePipeline{busy: true}
	app := newTestApp(t, pipeline)

	req := jsonRequest(nethttp.MethodPost, "/api/sync/manual", nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)
	assert.Equal(t, "SYNC_IN_PROGRESS", decodeBody[dto.ErrorResponse](t, resp).Code)
	assert.Zero(t, pipeline.allCalls.Load())
}

func TestStatus_EstadoDelScheduler(t *testing.T) {
	app := newTestApp(t, &fakePipeline{busy: true})

	req := jsonRequest(nethttp.MethodGet, "/api/sync/status", nil)
	req.Header.Set("Authorization", bearerToken(t))
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody[dto.SyncStatusResponse](t, resp)
	assert.Equal(t, "0 0 * * *", body.CronSchedule)
	assert.Equal(t, "2025-10-16T00:00:00Z", body.NextRun)
	assert.True(t, body.Running)
}

func TestRetrospective_ArranqueConRango(t *testing.T) {
	pipeline := &fakePipeline{retroArgs: make(chan [2]string, 1)}
	app := newTestApp(t, pipeline)

	req := jsonRequest(nethttp.MethodPost, "/api/sync/retrospective", dto.RetrospectiveRequest{StartDate: "2025-10-01", EndDate: "2025-10-03"})
	req.Header.Set("Authorization", bearerToken(t))
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusAccepted, resp.StatusCode)

	select {
	case args := <-pipeline.retroArgs:
		assert.Equal(t, [2]string{"2025-10-01", "2025-10-03"}, args)
	case <-time.After(time.Second):
		t.Fatal("el pipeline retrospectivo nunca arrancó")
	}
}

func TestRetrospective_RangoInvalido(t *testing.T) {
	pipeline := &fakePipeline{retroArgs: make(chan [2]string, 1)}
	app := newTestApp(t, pipeline)

	cases := []dto.RetrospectiveRequest{
		{StartDate: "2025-10-03", EndDate: "2025-10-01"}, // invertido
		{StartDate: "03-10-2025", EndDate: "2025-10-05"}, // formato inválido
		{StartDate: "", EndDate: "2025-10-05"},           // faltante
	}
	for _, in := range cases {
		req := jsonRequest(nethttp.MethodPost, "/api/sync/retrospective", in)
		req.Header.Set("Authorization", bearerToken(t))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION", decodeBody[dto.ErrorResponse](t, resp).Code)
	}
	assert.Empty(t, pipeline.retroArgs, "un rango inválido no debe arrancar trabajo")
}

func TestRetrospective_ConflictoSiYaCorre(t *testing.T) {
	app := newTestApp(t, &fakePipeline{busy: true})

	req := jsonRequest(nethttp.MethodPost, "/api/sync/retrospective", dto.RetrospectiveRequest{StartDate: "2025-10-01", EndDate: "2025-10-02"})
	req.Header.Set("Authorization", bearerToken(t))
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Servicio
// ──────────────────────────────────────────────────────────────────────────────

func TestInfo_DescriptorDelServicio(t *testing.T) {
	app := newTestApp(t, &fakePipeline{})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/", nil))

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody[dto.ServiceInfoResponse](t, resp)
	assert.Equal(t, "stock-sync", body.Service)
	assert.Contains(t, body.Endpoints, "syncManual")
}

func TestHealth_DependenciasReportadas(t *testing.T) {
	app := newTestApp(t, &fakePipeline{})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/health", nil))

	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody[dto.HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "connected", body.Database)
	assert.Equal(t, "ok", body.UpstreamAPI)
}
