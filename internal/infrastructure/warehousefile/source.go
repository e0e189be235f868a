package warehousefile

import (
	"os"
	"strings"

	"github.com/jhoicas/stock-sync/internal/application/sync"
	"github.com/jhoicas/stock-sync/internal/domain/repository"
	"github.com/jhoicas/stock-sync/pkg/logger"
)

var _ repository.WarehouseSource = (*Source)(nil)

// Source carga la lista de bodegas desde un archivo de texto: un identificador
// por línea, UTF-8, líneas vacías ignoradas, # comenta.
type Source struct {
	path  string
	audit sync.AuditSink
	log   *logger.Logger
}

// NewSource construye la fuente de bodegas.
func NewSource(path string, audit sync.AuditSink, log *logger.Logger) *Source {
	return &Source{path: path, audit: audit, log: log.Component("warehouses")}
}

// Load lee el archivo completo en cada invocación: editarlo surte efecto en la
// siguiente corrida sin reiniciar. Si el archivo no existe se crea vacío y se
// devuelve una lista vacía. Cualquier otro fallo de lectura degrada a "sin
// bodegas que sincronizar" y se reporta a la bitácora; nunca falla al caller.
func (s *Source) Load() []string {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			if writeErr := os.WriteFile(s.path, nil, 0o644); writeErr != nil {
				s.audit.Info("Error creando archivo de bodegas: " + writeErr.Error())
				return nil
			}
			s.audit.Info("Archivo de bodegas no encontrado. Se creó vacío: " + s.path)
			return nil
		}
		s.audit.Info("Error leyendo archivo de bodegas: " + err.Error())
		s.log.Error().Err(err).Str("path", s.path).Msg("lectura de bodegas fallida")
		return nil
	}

	var warehouses []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		warehouses = append(warehouses, line)
	}
	return warehouses
}
