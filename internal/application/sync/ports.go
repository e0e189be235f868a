package sync

import "context"

// RowMeta metadatos de una fila del API; href es la auto-referencia al producto.
type RowMeta struct {
	Href string `json:"href"`
}

// StockRow fila cruda del reporte de stock del API remoto.
// Los campos numéricos llegan como flotantes y pueden faltar (cero).
type StockRow struct {
	Meta      RowMeta `json:"meta"`
	Stock     float64 `json:"stock"`
	Reserve   float64 `json:"reserve"`
	Quantity  float64 `json:"quantity"`
	InTransit float64 `json:"inTransit"`
	Price     float64 `json:"price"`
	StockDays float64 `json:"stockDays"`
}

// StockFetcher define el puerto de salida hacia el API de stock.
// La implementación concreta pagina y autentica; para tests se inyecta un fake.
type StockFetcher interface {
	// FetchSnapshot obtiene el snapshot actual de una bodega.
	FetchSnapshot(ctx context.Context, warehouseID string) ([]StockRow, error)
	// FetchSnapshotAt obtiene el snapshot de una bodega a un momento dado
	// (YYYY-MM-DD o YYYY-MM-DD HH:MM:SS).
	FetchSnapshotAt(ctx context.Context, warehouseID, dateTime string) ([]StockRow, error)
}

// AuditSink define el puerto hacia la bitácora append-only de resultados.
// Dos operaciones: registrar el desenlace de una bodega y una línea informativa.
type AuditSink interface {
	Record(warehouseID string, success bool, recordCount int, errMsg string)
	Info(message string)
}
