package engine_test

import (
	"strings"
	"testing"

	"go-payroll/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testContext() engine.Context {
	return engine.NewContext().
		With("base", decimal.NewFromInt(2000000)).
		With("gross", decimal.NewFromInt(2500000)).
		WithInt("working_days", 22).
		WithInt("payment_days", 20)
}

func TestEvalFormula_Arithmetic(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name    string
		formula string
		want    string
	}{
		{"plain variable", "base", "2000000"},
		{"percentage of base", "base * 0.1", "200000"},
		{"precedence", "base + base * 0.5", "3000000"},
		{"parentheses", "(base + gross) / 2", "2250000"},
		{"unary minus", "-base * 0.01", "-20000"},
		{"min", "min(base, gross)", "2000000"},
		{"max of three", "max(base, gross, 100)", "2500000"},
		{"round", "round(base / 3)", "666667"},
		{"round with places", "round(10.255, 2)", "10.26"},
		{"decimal constructor", "Decimal('0.035') * base", "70000"},
		{"modulo", "base % 300000", "200000"},
		{"underscored literal", "1_500_000 + 1", "1500001"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.EvalFormula(tc.formula, ctx)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
				"formula %q: got %s want %s", tc.formula, got, tc.want)
		})
	}
}

func TestEvalFormula_FailSafeReturnsZero(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name    string
		formula string
	}{
		{"unknown variable", "unknown_var * 2"},
		{"division by zero", "base / 0"},
		{"malformed", "base * * 2"},
		{"assignment rejected", "base = 100"},
		{"disallowed function", "open(base)"},
		{"attribute access rejected", "employee.salary"},
		{"empty", "   "},
		{"boolean arithmetic", "(base > 0) + 1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := engine.EvalFormula(tc.formula, ctx)
			assert.True(t, got.IsZero(), "formula %q should degrade to zero, got %s", tc.formula, got)
		})
	}
}

func TestEvalCondition(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name      string
		condition string
		want      bool
	}{
		{"greater than", "base > 1000000", true},
		{"equality", "working_days == 22", true},
		{"and", "base > 0 and payment_days >= 20", true},
		{"or short circuit", "base > 0 or unknown / 0", true},
		{"not", "not (base > gross)", true},
		{"false comparison", "base >= gross", false},
		{"truthy number", "payment_days", true},
		{"unknown variable fails safe", "grade == 1", false},
		{"malformed fails safe", "base >", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.EvalCondition(tc.condition, ctx))
		})
	}
}

func TestParse_RejectsOutsideGrammar(t *testing.T) {
	bad := []string{
		"base = 1",
		"__import__('os')",
		"base; gross",
		"[1, 2]",
		"base & gross",
		strings.Repeat("1+", 600) + "1", // melewati batas token
	}
	for _, src := range bad {
		_, err := engine.Parse(src)
		assert.Error(t, err, "expected parse rejection for %q", src)
	}
}

func TestExpr_ReusableAcrossContexts(t *testing.T) {
	expr, err := engine.Parse("base * 0.05")
	assert.NoError(t, err)

	out1, err := expr.EvalNumber(engine.NewContext().With("base", decimal.NewFromInt(100)))
	assert.NoError(t, err)
	out2, err := expr.EvalNumber(engine.NewContext().With("base", decimal.NewFromInt(200)))
	assert.NoError(t, err)

	assert.True(t, out1.Equal(decimal.NewFromInt(5)))
	assert.True(t, out2.Equal(decimal.NewFromInt(10)))
}

func TestContext_WithDoesNotMutate(t *testing.T) {
	base := engine.NewContext().With("base", decimal.NewFromInt(100))
	extended := base.With("gross", decimal.NewFromInt(500))

	_, ok := base.Lookup("gross")
	assert.False(t, ok, "extending a context must not mutate the original")

	v, ok := extended.Lookup("gross")
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())
}
