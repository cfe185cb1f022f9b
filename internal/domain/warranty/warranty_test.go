package warranty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		soldAt time.Time
		want   Result
	}{
		{"45 días vigente", now.AddDate(0, 0, -45), Result{DaysSinceSale: 45, Status: StatusVigente}},
		{"120 días vencida", now.AddDate(0, 0, -120), Result{DaysSinceSale: 120, Status: StatusVencida}},
		{"límite de 90 días vigente", now.AddDate(0, 0, -90), Result{DaysSinceSale: 90, Status: StatusVigente}},
		{"91 días vencida", now.AddDate(0, 0, -91), Result{DaysSinceSale: 91, Status: StatusVencida}},
		{"día parcial no cuenta", now.Add(-23 * time.Hour), Result{DaysSinceSale: 0, Status: StatusVigente}},
		{"venta futura", now.Add(48 * time.Hour), Result{DaysSinceSale: 0, Status: StatusVigente}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.soldAt, now))
		})
	}
}

func TestEvaluateWithWindow(t *testing.T) {
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusVencida, EvaluateWithWindow(now.AddDate(0, 0, -31), now, 30).Status)
	assert.Equal(t, StatusVigente, EvaluateWithWindow(now.AddDate(0, 0, -30), now, 30).Status)
}
