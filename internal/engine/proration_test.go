package engine_test

import (
	"testing"
	"time"

	"go-payroll/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDays(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"full february 2026", date(2026, 2, 1), date(2026, 2, 28), 20},
		{"one week", date(2026, 3, 2), date(2026, 3, 8), 5},
		{"weekend only", date(2026, 3, 7), date(2026, 3, 8), 0},
		{"single monday", date(2026, 3, 2), date(2026, 3, 2), 1},
		{"inverted range", date(2026, 3, 8), date(2026, 3, 2), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.WorkingDays(tc.start, tc.end))
		})
	}
}

func TestProrate(t *testing.T) {
	monthly := decimal.NewFromInt(3000000)

	t.Run("monthly keeps full base", func(t *testing.T) {
		base, mult := engine.Prorate(engine.PeriodMonthly, monthly, 21)
		assert.True(t, base.Equal(monthly))
		assert.True(t, mult.Equal(decimal.NewFromInt(1)))
	})

	t.Run("semi monthly is always exactly half", func(t *testing.T) {
		// Berapapun hari kerjanya, semi-monthly membelah 50/50.
		for _, workingDays := range []int{9, 10, 11, 12} {
			base, mult := engine.Prorate(engine.PeriodSemiMonthly, monthly, workingDays)
			assert.True(t, base.Equal(decimal.NewFromInt(1500000)))
			assert.True(t, mult.Equal(decimal.NewFromFloat(0.5)))
		}
	})

	t.Run("weekly multiplier is working days over 22", func(t *testing.T) {
		base, mult := engine.Prorate(engine.PeriodWeekly, monthly, 5)
		assert.True(t, base.Equal(monthly), "weekly keeps monthly base, multiplier is separate")
		expected := decimal.NewFromInt(5).Div(decimal.NewFromInt(22))
		assert.True(t, mult.Equal(expected))
	})

	t.Run("bi weekly multiplier", func(t *testing.T) {
		_, mult := engine.Prorate(engine.PeriodBiWeekly, monthly, 10)
		expected := decimal.NewFromInt(10).Div(decimal.NewFromInt(22))
		assert.True(t, mult.Equal(expected))
	})

	t.Run("zero working days falls back to full multiplier", func(t *testing.T) {
		base, mult := engine.Prorate(engine.PeriodWeekly, monthly, 0)
		assert.True(t, base.Equal(monthly))
		assert.True(t, mult.Equal(decimal.NewFromInt(1)))
	})
}
