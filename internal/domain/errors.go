package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrMissingCredentials faltan credenciales del API: ni token ni login+password configurados.
	ErrMissingCredentials = errors.New("credenciales del API no configuradas: defina API_TOKEN o API_LOGIN y API_PASSWORD")
	// ErrInvalidDateRange rango de fechas de la sincronización retrospectiva malformado o invertido.
	ErrInvalidDateRange = errors.New("rango de fechas inválido: use YYYY-MM-DD y fecha inicial <= final")
	// ErrSyncAlreadyRunning ya hay una corrida del pipeline en curso; las corridas no se solapan.
	ErrSyncAlreadyRunning = errors.New("sincronización en curso: intente de nuevo al finalizar")
	// ErrNoRecordsMapped el API devolvió filas pero ninguna tenía producto resoluble.
	ErrNoRecordsMapped = errors.New("no se pudo procesar ninguna fila del API")
	// ErrVerificationFailed la verificación post-inserción no encontró filas persistidas.
	ErrVerificationFailed = errors.New("los datos no se guardaron en la base de datos")
	// ErrInvalidCredentials usuario o contraseña del operador incorrectos.
	ErrInvalidCredentials = errors.New("credenciales inválidas")
)
