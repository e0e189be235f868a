package sync

import (
	"context"
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-sync/internal/domain"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

// Pipeline orquesta la sincronización: fetch -> transform -> persist -> verify,
// bodega por bodega, en secuencia. El API remoto y la base son recursos
// compartidos sensibles a carga; no hay fan-out entre bodegas.
type Pipeline struct {
	fetcher   StockFetcher
	store     repository.StockRecordRepository
	source    repository.WarehouseSource
	audit     AuditSink
	log       *logger.Logger
	utcOffset time.Duration

	// mu impide corridas solapadas (disparo manual durante una corrida
	// programada). El segundo caller recibe ErrSyncAlreadyRunning.
	mu gosync.Mutex
}

// NewPipeline construye el pipeline con sus colaboradores.
func NewPipeline(fetcher StockFetcher, store repository.StockRecordRepository, source repository.WarehouseSource, audit AuditSink, log *logger.Logger, utcOffsetHours int) *Pipeline {
	return &Pipeline{
		fetcher:   fetcher,
		store:     store,
		source:    source,
		audit:     audit,
		log:       log.Component("pipeline"),
		utcOffset: time.Duration(utcOffsetHours) * time.Hour,
	}
}

// Busy indica si hay una corrida en curso. Es una sonda instantánea para la
// capa HTTP; la exclusión real la garantiza el mutex dentro de SyncAll.
func (p *Pipeline) Busy() bool {
	if p.mu.TryLock() {
		p.mu.Unlock()
		return false
	}
	return true
}

// syncTimestamp momento de la corrida con la corrección fija de offset UTC.
func (p *Pipeline) syncTimestamp() time.Time {
	return time.Now().Add(p.utcOffset)
}

// SyncAll sincroniza todas las bodegas de la fuente, en orden y en secuencia.
// Una bodega fallida se registra y no aborta las demás; la corrida siempre
// termina con un resumen. Si ya hay una corrida en curso devuelve
// ErrSyncAlreadyRunning sin tocar el API ni la base.
func (p *Pipeline) SyncAll(ctx context.Context) (*entity.SyncSummary, error) {
	if !p.mu.TryLock() {
		return nil, domain.ErrSyncAlreadyRunning
	}
	defer p.mu.Unlock()

	runID := uuid.NewString()
	p.audit.Info("=== Inicio de sincronización ===")
	p.log.Info().Str("run_id", runID).Msg("inicio de sincronización")

	warehouses := p.source.Load()
	if len(warehouses) == 0 {
		p.audit.Info("Lista de bodegas vacía. Sincronización no ejecutada.")
		return &entity.SyncSummary{}, nil
	}

	summary := &entity.SyncSummary{Total: len(warehouses)}
	for _, warehouse := range warehouses {
		summary.Add(p.syncWarehouse(ctx, warehouse))
	}

	p.audit.Info(fmt.Sprintf("=== Sincronización finalizada. Total: %d, Exitosas: %d, Errores: %d ===",
		summary.Total, summary.Success, summary.Failed))
	p.log.Info().Str("run_id", runID).
		Int("total", summary.Total).
		Int("success", summary.Success).
		Int("failed", summary.Failed).
		Msg("sincronización finalizada")

	return summary, nil
}

// syncWarehouse sincroniza una bodega. Cualquier falla en cualquier etapa se
// captura aquí y se convierte en un outcome fallido: el aislamiento por bodega
// es la frontera de errores del pipeline.
func (p *Pipeline) syncWarehouse(ctx context.Context, warehouseID string) entity.SyncOutcome {
	p.audit.Info(fmt.Sprintf("Inicio de sincronización para bodega %s", warehouseID))

	rows, err := p.fetcher.FetchSnapshot(ctx, warehouseID)
	if err != nil {
		return p.failure(warehouseID, "", fmt.Errorf("obtener datos del API: %w", err))
	}
	if len(rows) == 0 {
		// Ausencia de datos no es un error.
		p.audit.Record(warehouseID, true, 0, "")
		return entity.SyncOutcome{WarehouseID: warehouseID, Success: true, RecordCount: 0}
	}

	syncDate := p.syncTimestamp()
	records := p.mapRows(rows, warehouseID, syncDate, nil)
	if len(records) == 0 {
		return p.failure(warehouseID, "", domain.ErrNoRecordsMapped)
	}

	inserted, err := p.store.BatchInsert(ctx, records)
	if err != nil {
		return p.failure(warehouseID, "", fmt.Errorf("inserción por lotes: %w", err))
	}
	p.log.Debug().Str("warehouse", warehouseID).Int64("inserted", inserted).Msg("lote insertado")

	// Verificación post-escritura: la capa de persistencia puede reportar éxito
	// con escrituras parciales; se cuenta lo realmente persistido de esta corrida.
	count, err := p.store.CountBySyncDate(ctx, warehouseID, syncDate)
	if err != nil {
		return p.failure(warehouseID, "", fmt.Errorf("verificación post-inserción: %w", err))
	}
	if count == 0 {
		return p.failure(warehouseID, "", domain.ErrVerificationFailed)
	}

	p.audit.Record(warehouseID, true, int(count), "")
	return entity.SyncOutcome{WarehouseID: warehouseID, Success: true, RecordCount: int(count)}
}

// SyncRetrospective sincroniza el rango inclusivo de fechas [startDate, endDate]
// (YYYY-MM-DD) para todas las bodegas: la fecha es el lazo externo, la bodega
// el interno. Un par (fecha, bodega) fallido se registra y no detiene el resto.
func (p *Pipeline) SyncRetrospective(ctx context.Context, startDate, endDate string) (*entity.SyncSummary, error) {
	dates, err := GenerateDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	if !p.mu.TryLock() {
		return nil, domain.ErrSyncAlreadyRunning
	}
	defer p.mu.Unlock()

	p.audit.Info(fmt.Sprintf("=== Inicio de sincronización retrospectiva de %s a %s ===", startDate, endDate))

	warehouses := p.source.Load()
	if len(warehouses) == 0 {
		p.audit.Info("Lista de bodegas vacía. Sincronización retrospectiva no ejecutada.")
		return &entity.SyncSummary{}, nil
	}

	summary := &entity.SyncSummary{Total: len(dates) * len(warehouses), Dates: dates}
	for _, date := range dates {
		p.audit.Info(fmt.Sprintf("--- Procesando fecha: %s ---", date))
		for _, warehouse := range warehouses {
			summary.Add(p.syncWarehouseForDate(ctx, warehouse, date))
		}
	}

	p.audit.Info(fmt.Sprintf("=== Retrospectiva finalizada. Fechas: %d, Bodegas: %d, Exitosas: %d, Errores: %d, Registros: %d ===",
		len(dates), len(warehouses), summary.Success, summary.Failed, summary.TotalRecords))

	return summary, nil
}

// syncWarehouseForDate sincroniza una bodega a un momento retrospectivo.
// Marca StockDate en cada registro y no verifica contra el timestamp vivo:
// los lotes retrospectivos no son identificables de forma única por "ahora".
func (p *Pipeline) syncWarehouseForDate(ctx context.Context, warehouseID, dateTime string) entity.SyncOutcome {
	// El API y la base reciben el mismo momento: la parte de fecha + 07:00:00.
	datePart := strings.Fields(strings.TrimSpace(dateTime))[0]
	moment := datePart + " " + retrospectiveHour

	stockDate, err := time.ParseInLocation(momentLayout, moment, time.UTC)
	if err != nil {
		return p.failure(warehouseID, dateTime, fmt.Errorf("%w: %q", domain.ErrInvalidDateRange, dateTime))
	}

	rows, err := p.fetcher.FetchSnapshotAt(ctx, warehouseID, moment)
	if err != nil {
		return p.failure(warehouseID, dateTime, fmt.Errorf("obtener datos del API: %w", err))
	}
	if len(rows) == 0 {
		p.audit.Record(warehouseID, true, 0, "Sin datos para "+moment)
		return entity.SyncOutcome{WarehouseID: warehouseID, Date: dateTime, Success: true, RecordCount: 0}
	}

	records := p.mapRows(rows, warehouseID, p.syncTimestamp(), &stockDate)
	if len(records) == 0 {
		return p.failure(warehouseID, dateTime, domain.ErrNoRecordsMapped)
	}

	if _, err := p.store.BatchInsert(ctx, records); err != nil {
		return p.failure(warehouseID, dateTime, fmt.Errorf("inserción por lotes: %w", err))
	}

	p.audit.Record(warehouseID, true, len(records), "Fecha "+dateTime)
	return entity.SyncOutcome{WarehouseID: warehouseID, Date: dateTime, Success: true, RecordCount: len(records)}
}

// mapRows transforma las filas crudas descartando las que no tienen producto resoluble.
func (p *Pipeline) mapRows(rows []StockRow, warehouseID string, syncDate time.Time, stockDate *time.Time) []*entity.StockRecord {
	records := make([]*entity.StockRecord, 0, len(rows))
	for _, row := range rows {
		record, ok := MapRow(row, warehouseID, syncDate, stockDate)
		if !ok {
			p.log.Warn().Str("warehouse", warehouseID).Str("href", row.Meta.Href).Msg("fila sin producto resoluble, descartada")
			continue
		}
		records = append(records, record)
	}
	return records
}

// failure registra y construye un outcome fallido.
func (p *Pipeline) failure(warehouseID, date string, err error) entity.SyncOutcome {
	p.audit.Record(warehouseID, false, 0, err.Error())
	p.log.Error().Err(err).Str("warehouse", warehouseID).Str("date", date).Msg("sincronización de bodega fallida")
	return entity.SyncOutcome{WarehouseID: warehouseID, Date: date, Success: false, RecordCount: 0, Error: err.Error()}
}
