package salaryslip

import (
	"bytes"
	"fmt"
	"strings"
)

// buildPayslipPDF merender slip menjadi dokumen PDF satu halaman. Renderer
// minimal tanpa dependensi; cukup untuk payslip teks berbaris.
func buildPayslipPDF(slip *SalarySlip) ([]byte, error) {
	lines := payslipLines(slip)
	return renderTextPDF(lines)
}

func payslipLines(slip *SalarySlip) []string {
	lines := []string{
		"SALARY SLIP",
		fmt.Sprintf("Slip ID: %s", slip.ID),
		fmt.Sprintf("Employee: %s", slip.EmployeeID),
		fmt.Sprintf("Status: %s", slip.Status),
		"",
	}

	var earnings, deductions []SalarySlipDetail
	for _, d := range slip.Details {
		if d.Type == "DEDUCTION" {
			deductions = append(deductions, d)
		} else {
			earnings = append(earnings, d)
		}
	}

	lines = append(lines, "Earnings:")
	for _, d := range earnings {
		lines = append(lines, fmt.Sprintf("  %-30s %s", d.Name, d.Amount.StringFixed(2)))
	}
	lines = append(lines, "Deductions:")
	for _, d := range deductions {
		lines = append(lines, fmt.Sprintf("  %-30s %s", d.Name, d.Amount.StringFixed(2)))
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Gross Pay:        %s", slip.GrossPay.StringFixed(2)),
		fmt.Sprintf("Total Deductions: %s", slip.TotalDeduction.StringFixed(2)),
		fmt.Sprintf("Net Pay:          %s", slip.NetPay.StringFixed(2)),
		fmt.Sprintf("Rounded Total:    %s", slip.RoundedTotal.StringFixed(0)),
	)
	return lines
}

func renderTextPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Salary Slip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 11 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Courier >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
