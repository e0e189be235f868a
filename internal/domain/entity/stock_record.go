package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord es una fila de snapshot de stock: un producto en una bodega en un
// evento de sincronización. Los registros se insertan y nunca se actualizan
// (cada corrida agrega filas nuevas; el histórico se conserva).
type StockRecord struct {
	ProductID    string          // UUID del producto/variante, extraído del href del API
	WarehouseID  string          // UUID de la bodega, provisto por el caller
	SyncDate     time.Time       // momento de la corrida (con corrección de offset UTC)
	StockDate    *time.Time      // momento que representan las cantidades; solo en modo retrospectivo
	QtyStock     int             // stock (truncado)
	QtyReserved  int             // reserve (truncado)
	QtyAvailable int             // quantity (truncado)
	QtyInTransit int             // inTransit (truncado)
	AvgCost      decimal.Decimal // price/100 redondeado a 2 decimales
	DaysOnStock  int             // stockDays (truncado)
}
