package moysklad

import (
	"bytes"
	"encoding/json"

	"github.com/jhoicas/stock-sync/internal/application/sync"
)

// decodeRows decodifica explícitamente las dos formas de respuesta que acepta
// el contrato: objeto {rows:[...]} o arreglo desnudo [...]. Cualquier otra
// forma devuelve ok=false ("forma no reconocida") y corta la paginación.
func decodeRows(body []byte) ([]sync.StockRow, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, false
	}
	switch trimmed[0] {
	case '{':
		var page struct {
			Rows []sync.StockRow `json:"rows"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil || page.Rows == nil {
			return nil, false
		}
		return page.Rows, true
	case '[':
		var rows []sync.StockRow
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, false
		}
		return rows, true
	default:
		return nil, false
	}
}
