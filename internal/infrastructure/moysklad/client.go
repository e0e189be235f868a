package moysklad

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stock-sync/internal/application/sync"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

const (
	// pageLimit máximo de filas por petición que permite el API remoto.
	pageLimit = 1000
	// maxOffset cota de seguridad: al superarla se corta la paginación
	// conservando lo acumulado, para no ciclar contra un backend anómalo.
	maxOffset = 100000

	momentLayout  = "2006-01-02 15:04:05"
	clientTimeout = 60 * time.Second
	healthTimeout = 10 * time.Second
)

var _ sync.StockFetcher = (*Client)(nil)

// Config credenciales y endpoints del API de stock.
// Token (Bearer) tiene prioridad sobre Login+Password (Basic).
type Config struct {
	URL           string // endpoint del reporte de stock
	EntityBaseURL string // base para referencias a entidades (filtro store=)
	Token         string
	Login         string
	Password      string
	DefaultMoment string // momento por defecto del filtro; vacío = ahora (UTC)
}

// Client implementa sync.StockFetcher contra el API remoto de stock.
// Configuración inmutable construida una vez; sin estado global compartido.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente con un timeout de red generoso: el reporte
// de stock de una bodega grande puede tardar varios segundos por página.
func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: clientTimeout},
		log:        log.Component("moysklad"),
	}
}

// RemoteFetchError falla de red o respuesta no-2xx del API remoto.
// Conserva estado y cuerpo cuando están disponibles; el pipeline lo convierte
// en un outcome fallido por bodega en vez de abortar la corrida.
type RemoteFetchError struct {
	Status int
	Body   string
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("api remoto: estado %d: %s", e.Status, e.Body)
}

// authHeader resuelve el header Authorization una vez por petición:
// Bearer si hay token, Basic si hay login+password, error de configuración si
// no hay ninguna credencial (antes de cualquier llamada de red).
func (c *Client) authHeader() (string, error) {
	if c.cfg.Token != "" {
		return "Bearer " + c.cfg.Token, nil
	}
	if c.cfg.Login != "" && c.cfg.Password != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(c.cfg.Login + ":" + c.cfg.Password))
		return "Basic " + cred, nil
	}
	return "", domain.ErrMissingCredentials
}

// buildFilter construye la expresión de filtro del lado del servidor:
// momento (parámetro > configuración > ahora), inclusión de archivados y no
// archivados, y la bodega referenciada por URL completa de entidad.
func (c *Client) buildFilter(warehouseID, moment string) string {
	if moment == "" {
		moment = c.cfg.DefaultMoment
	}
	if moment == "" {
		moment = time.Now().UTC().Format(momentLayout)
	}
	filters := []string{
		"moment=" + moment,
		"archived=false",
		"archived=true",
		"store=" + c.cfg.EntityBaseURL + "/entity/store/" + warehouseID,
	}
	return strings.Join(filters, ";")
}

// FetchSnapshot obtiene el snapshot actual de una bodega, paginando hasta la
// última página.
func (c *Client) FetchSnapshot(ctx context.Context, warehouseID string) ([]sync.StockRow, error) {
	filter := c.buildFilter(warehouseID, "")
	c.log.Debug().Str("warehouse", warehouseID).Str("filter", filter).Msg("consulta de snapshot")
	return c.fetchAll(ctx, warehouseID, filter)
}

// FetchSnapshotAt obtiene el snapshot de una bodega a un momento dado.
// Si dateTime trae hora se usa tal cual; si es solo fecha se fija 07:00:00,
// el estado del stock al inicio de la jornada.
func (c *Client) FetchSnapshotAt(ctx context.Context, warehouseID, dateTime string) ([]sync.StockRow, error) {
	moment := dateTime
	if !strings.Contains(moment, ":") {
		moment = moment + " 07:00:00"
	}
	filter := c.buildFilter(warehouseID, moment)
	c.log.Debug().Str("warehouse", warehouseID).Str("moment", moment).Msg("consulta de snapshot retrospectivo")
	return c.fetchAll(ctx, warehouseID, filter)
}

// fetchAll pagina el reporte con offset creciente hasta recibir una página
// corta (última), una forma no reconocida, o superar la cota de seguridad.
func (c *Client) fetchAll(ctx context.Context, warehouseID, filter string) ([]sync.StockRow, error) {
	all := []sync.StockRow{}
	offset := 0
	for {
		body, err := c.fetchPage(ctx, filter, offset, pageLimit)
		if err != nil {
			return nil, err
		}
		rows, ok := decodeRows(body)
		if !ok {
			// Forma no reconocida: terminar con lo acumulado.
			break
		}
		all = append(all, rows...)
		if len(rows) < pageLimit {
			break
		}
		offset += pageLimit
		if offset > maxOffset {
			c.log.Warn().Str("warehouse", warehouseID).Int("offset", offset).Msg("cota de paginación alcanzada, resultado parcial")
			break
		}
	}
	c.log.Info().Str("warehouse", warehouseID).Int("rows", len(all)).Msg("filas recibidas del API")
	return all, nil
}

// fetchPage ejecuta una petición GET con filter/offset/limit y devuelve el cuerpo.
func (c *Client) fetchPage(ctx context.Context, filter string, offset, limit int) ([]byte, error) {
	auth, err := c.authHeader()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("construir petición: %w", err)
	}
	q := url.Values{}
	q.Set("filter", filter)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &RemoteFetchError{Status: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RemoteFetchError{Status: resp.StatusCode, Body: err.Error()}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteFetchError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// HealthCheck verifica la disponibilidad del API con una petición mínima
// (limit=1) y timeout corto. Devuelve false ante cualquier error en vez de
// propagarlo.
func (c *Client) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	auth, err := c.authHeader()
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return false
	}
	q := url.Values{}
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}
