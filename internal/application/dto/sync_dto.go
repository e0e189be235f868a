package dto

// TokenRequest credenciales del operador para emitir un token.
type TokenRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// TokenResponse token JWT emitido.
type TokenResponse struct {
	Token string `json:"token"`
}

// SyncStartedResponse confirmación de arranque asíncrono de una sincronización.
type SyncStartedResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SyncStatusResponse estado del scheduler de sincronización.
type SyncStatusResponse struct {
	CronSchedule string `json:"cronSchedule"`
	NextRun      string `json:"nextRun,omitempty"`
	Running      bool   `json:"running"`
}

// RetrospectiveRequest rango de fechas para sincronización retrospectiva.
type RetrospectiveRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// HealthResponse estado del servicio y sus dependencias.
type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	UpstreamAPI string `json:"upstreamApi"`
	Timestamp   string `json:"timestamp"`
}

// ServiceInfoResponse descriptor raíz del servicio.
type ServiceInfoResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}
