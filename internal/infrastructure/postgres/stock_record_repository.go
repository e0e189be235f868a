package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// Querier abstrae pool o tx de pgx: los repositorios funcionan con ambos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// StockRecordRepo implementa StockRecordRepository sobre PostgreSQL (usable con pool o tx).
type StockRecordRepo struct {
	q Querier
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

var stockColumns = []string{
	"id_prod", "id_warehouse", "sync_date", "stock_date",
	"qty_stock", "qty_reserved", "qty_available", "qty_in_transit",
	"avg_cost", "days_on_stock",
}

// BatchInsert persiste todos los registros en un lote vía COPY y devuelve
// cuántos insertó. No reconcilia éxitos parciales: esa garantía queda en el
// motor, y el pipeline verifica con un conteo posterior.
func (r *StockRecordRepo) BatchInsert(ctx context.Context, records []*entity.StockRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	src := pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		rec := records[i]
		return []any{
			rec.ProductID, rec.WarehouseID, rec.SyncDate, rec.StockDate,
			rec.QtyStock, rec.QtyReserved, rec.QtyAvailable, rec.QtyInTransit,
			rec.AvgCost, rec.DaysOnStock,
		}, nil
	})
	n, err := r.q.CopyFrom(ctx, pgx.Identifier{"stock_snapshots"}, stockColumns, src)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("batch insert stock_snapshots: lote duplicado: %w", err)
		}
		return 0, fmt.Errorf("batch insert stock_snapshots: %w", err)
	}
	return n, nil
}

// CountBySyncDate cuenta filas de una bodega con el timestamp exacto de la corrida.
func (r *StockRecordRepo) CountBySyncDate(ctx context.Context, warehouseID string, syncDate time.Time) (int64, error) {
	const q = `SELECT count(*) FROM stock_snapshots WHERE id_warehouse = $1 AND sync_date = $2`
	var n int64
	if err := r.q.QueryRow(ctx, q, warehouseID, syncDate).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by sync_date: %w", err)
	}
	return n, nil
}

// CountByStockDate cuenta filas de una bodega con un momento retrospectivo exacto.
func (r *StockRecordRepo) CountByStockDate(ctx context.Context, warehouseID string, stockDate time.Time) (int64, error) {
	const q = `SELECT count(*) FROM stock_snapshots WHERE id_warehouse = $1 AND stock_date = $2`
	var n int64
	if err := r.q.QueryRow(ctx, q, warehouseID, stockDate).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by stock_date: %w", err)
	}
	return n, nil
}
