package entity

// SyncOutcome resultado de sincronizar una bodega (y opcionalmente una fecha).
type SyncOutcome struct {
	WarehouseID string `json:"warehouse"`
	Date        string `json:"date,omitempty"` // solo en modo retrospectivo (YYYY-MM-DD HH:MM:SS)
	Success     bool   `json:"success"`
	RecordCount int    `json:"recordCount"`
	Error       string `json:"error,omitempty"`
}

// SyncSummary agregado de una corrida completa del pipeline.
type SyncSummary struct {
	Total        int           `json:"total"`
	Success      int           `json:"success"`
	Failed       int           `json:"failed"`
	TotalRecords int           `json:"totalRecords"`
	Dates        []string      `json:"dates,omitempty"` // solo en modo retrospectivo
	Results      []SyncOutcome `json:"results"`
}

// Add acumula un outcome en el resumen.
func (s *SyncSummary) Add(out SyncOutcome) {
	s.Results = append(s.Results, out)
	if out.Success {
		s.Success++
		s.TotalRecords += out.RecordCount
	} else {
		s.Failed++
	}
}
