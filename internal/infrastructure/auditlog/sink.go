package auditlog

import (
	"fmt"
	"os"
	"path/filepath"
	gosync "sync"
	"time"

	"github.com/jhoicas/stock-sync/internal/application/sync"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

var _ sync.AuditSink = (*FileSink)(nil)

// FileSink bitácora append-only de resultados de sincronización.
// Formato de línea, parte del contrato externo:
//
//	timestamp | bodega | SUCCESS|ERROR | Records: n [| Error: msg]
//	timestamp | INFO | mensaje
type FileSink struct {
	path string
	log  *logger.Logger
	mu   gosync.Mutex
}

// NewFileSink construye el sink creando el directorio del archivo si no existe.
func NewFileSink(path string, log *logger.Logger) (*FileSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio de bitácora: %w", err)
		}
	}
	return &FileSink{path: path, log: log.Component("audit")}, nil
}

// Record registra el desenlace de la sincronización de una bodega.
func (s *FileSink) Record(warehouseID string, success bool, recordCount int, errMsg string) {
	status := "SUCCESS"
	if !success {
		status = "ERROR"
	}
	line := fmt.Sprintf("%s | %s | %s | Records: %d", time.Now().UTC().Format(time.RFC3339), warehouseID, status, recordCount)
	if errMsg != "" {
		line += " | Error: " + errMsg
	}
	s.append(line)
	s.log.Info().Str("warehouse", warehouseID).Bool("success", success).Int("records", recordCount).Msg("resultado registrado")
}

// Info registra una línea informativa de texto libre.
func (s *FileSink) Info(message string) {
	s.append(fmt.Sprintf("%s | INFO | %s", time.Now().UTC().Format(time.RFC3339), message))
	s.log.Info().Msg(message)
}

func (s *FileSink) append(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("apertura de bitácora fallida")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("escritura de bitácora fallida")
	}
}
