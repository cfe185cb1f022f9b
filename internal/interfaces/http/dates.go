package http

import (
	"time"

	"github.com/jhoicas/garantias-api/internal/domain"
)

const dateOnly = "2006-01-02"

// parseDate acepta RFC3339 o YYYY-MM-DD (UTC). Con endOfDay una fecha sin hora
// se interpreta como el último instante de ese día. Vacío devuelve nil.
func parseDate(field, s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateOnly, s, time.UTC)
	if err != nil {
		return nil, domain.Invalid(field, "formato esperado RFC3339 o YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
