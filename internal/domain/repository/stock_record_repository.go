package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// StockRecordRepository define el puerto de persistencia para los snapshots de stock.
// Solo inserción por lotes y conteos exactos: el pipeline verifica después de
// escribir porque no confía en el éxito parcial del motor.
type StockRecordRepository interface {
	// BatchInsert persiste todos los registros en un lote y devuelve cuántos insertó.
	BatchInsert(ctx context.Context, records []*entity.StockRecord) (int64, error)
	// CountBySyncDate cuenta filas de una bodega con el timestamp exacto de la corrida.
	CountBySyncDate(ctx context.Context, warehouseID string, syncDate time.Time) (int64, error)
	// CountByStockDate cuenta filas de una bodega con un momento retrospectivo exacto.
	CountByStockDate(ctx context.Context, warehouseID string, stockDate time.Time) (int64, error)
}
