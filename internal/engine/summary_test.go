package engine_test

import (
	"testing"

	"go-payroll/internal/engine"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	slips := []engine.SlipTotals{
		{Status: engine.StatusCalculated, GrossPay: dec("2000000"), TotalDeduction: dec("95000"), NetPay: dec("1905000")},
		{Status: engine.StatusPaid, GrossPay: dec("3000000"), TotalDeduction: dec("200000"), NetPay: dec("2800000")},
		{Status: engine.StatusDraft, GrossPay: dec("0"), TotalDeduction: dec("0"), NetPay: dec("0")},
		{Status: engine.StatusApproved, GrossPay: dec("1000000"), TotalDeduction: dec("50000"), NetPay: dec("950000")},
	}

	summary := engine.Summarize(slips)

	assert.Equal(t, 4, summary.TotalEmployees)
	assert.Equal(t, 3, summary.ProcessedEmployees, "draft slips are not processed")
	assert.True(t, summary.TotalGrossPay.Equal(dec("6000000")))
	assert.True(t, summary.TotalDeductions.Equal(dec("345000")))
	assert.True(t, summary.TotalNetPay.Equal(dec("5655000")))
}

func TestSummarize_EmptyPeriod(t *testing.T) {
	summary := engine.Summarize(nil)
	assert.Equal(t, 0, summary.TotalEmployees)
	assert.Equal(t, 0, summary.ProcessedEmployees)
	assert.True(t, summary.TotalGrossPay.IsZero())
	assert.True(t, summary.TotalNetPay.IsZero())
}

func TestSummarize_Repeatable(t *testing.T) {
	slips := []engine.SlipTotals{
		{Status: engine.StatusCalculated, GrossPay: dec("100"), TotalDeduction: dec("10"), NetPay: dec("90")},
	}
	first := engine.Summarize(slips)
	second := engine.Summarize(slips)
	assert.Equal(t, first, second)
}
