package sync

import (
	"fmt"
	"time"

	"github.com/jhoicas/stock-sync/internal/domain"
)

const (
	dateOnlyLayout = "2006-01-02"
	momentLayout   = "2006-01-02 15:04:05"

	// retrospectiveHour hora fija para los momentos retrospectivos: el estado
	// del stock al inicio de la jornada. Los callers deben usar la misma
	// convención de forma consistente.
	retrospectiveHour = "07:00:00"
)

// GenerateDateRange genera la secuencia inclusiva de días calendario entre
// start y end (ambos YYYY-MM-DD), cada uno con la hora fija 07:00:00.
// Las fechas se anclan en UTC para que el resultado no dependa de la zona
// horaria del proceso.
func GenerateDateRange(startDate, endDate string) ([]string, error) {
	start, err := time.ParseInLocation(dateOnlyLayout, startDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDateRange, startDate)
	}
	end, err := time.ParseInLocation(dateOnlyLayout, endDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidDateRange, endDate)
	}
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", domain.ErrInvalidDateRange, startDate, endDate)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateOnlyLayout)+" "+retrospectiveHour)
	}
	return dates, nil
}
