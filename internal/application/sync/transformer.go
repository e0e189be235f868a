package sync

import (
	"math"
	"regexp"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// hrefProductID extrae el UUID de producto o variante de la auto-referencia,
// ej. ".../entity/product/<uuid>?expand=supplier" o ".../entity/variant/<uuid>".
var hrefProductID = regexp.MustCompile(`(?i)/entity/(product|variant)/([a-f0-9-]+)(\?|$)`)

// ExtractProductID devuelve el UUID del producto referenciado por href, o "" si
// el href no apunta a un producto ni a una variante.
func ExtractProductID(href string) string {
	if href == "" {
		return ""
	}
	m := hrefProductID.FindStringSubmatch(href)
	if m == nil {
		return ""
	}
	return m[2]
}

// MapRow transforma una fila cruda del API en un registro persistible.
// Devuelve (nil, false) si la fila no tiene producto resoluble: se descarta,
// nunca se persiste parcialmente. Función pura: sin I/O ni estado compartido.
//
// Cantidades y días se truncan (floor); el costo viene en unidades menores y
// se convierte con price/100 redondeado a 2 decimales.
func MapRow(row StockRow, warehouseID string, syncDate time.Time, stockDate *time.Time) (*entity.StockRecord, bool) {
	productID := ExtractProductID(row.Meta.Href)
	if productID == "" {
		return nil, false
	}
	return &entity.StockRecord{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		SyncDate:     syncDate,
		StockDate:    stockDate,
		QtyStock:     int(math.Floor(row.Stock)),
		QtyReserved:  int(math.Floor(row.Reserve)),
		QtyAvailable: int(math.Floor(row.Quantity)),
		QtyInTransit: int(math.Floor(row.InTransit)),
		AvgCost:      decimal.NewFromFloat(row.Price).Div(decimal.NewFromInt(100)).Round(2),
		DaysOnStock:  int(math.Floor(row.StockDays)),
	}, true
}
