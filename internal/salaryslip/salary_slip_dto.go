package salaryslip

type CalculateSlipRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	PeriodID   string `json:"period_id" binding:"required,uuid"`
}

type GenerateForPeriodRequest struct {
	PeriodID string `json:"period_id" binding:"required,uuid"`
	// Workers 0 memakai default pool sebesar jumlah CPU.
	Workers int `json:"workers" binding:"omitempty,min=1,max=64"`
}

type GetSlipsFilterRequest struct {
	PeriodID   string `form:"period_id" binding:"omitempty,uuid"`
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=DRAFT CALCULATED APPROVED PAID CANCELLED"`
}

type SlipDetailResponse struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	Statistical   bool   `json:"statistical"`
	TaxApplicable bool   `json:"tax_applicable"`
}

type SlipResponse struct {
	ID          string `json:"id"`
	CompanyID   string `json:"company_id"`
	PeriodID    string `json:"period_id"`
	EmployeeID  string `json:"employee_id"`
	StructureID string `json:"structure_id"`

	BaseSalary       string `json:"base_salary"`
	MonthlyBase      string `json:"monthly_base"`
	PeriodMultiplier string `json:"period_multiplier"`

	TotalWorkingDays int `json:"total_working_days"`
	PaymentDays      int `json:"payment_days"`
	LeaveWithoutPay  int `json:"leave_without_pay"`

	GrossPay       string `json:"gross_pay"`
	TotalDeduction string `json:"total_deduction"`
	NetPay         string `json:"net_pay"`
	RoundedTotal   string `json:"rounded_total"`

	SalaryTax    string `json:"salary_tax"`
	EmployeeNSSF string `json:"employee_nssf"`
	EmployerNSSF string `json:"employer_nssf"`

	Status string `json:"status"`

	ApprovedBy *string `json:"approved_by,omitempty"`
	ApprovedAt *string `json:"approved_at,omitempty"`
	PaidAt     *string `json:"paid_at,omitempty"`
	PayslipURL *string `json:"payslip_url,omitempty"`
}

type SlipBreakdownResponse struct {
	Slip       SlipResponse         `json:"slip"`
	Earnings   []SlipDetailResponse `json:"earnings"`
	Deductions []SlipDetailResponse `json:"deductions"`
}

type SkippedEmployee struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type GenerateForPeriodResponse struct {
	PeriodID string            `json:"period_id"`
	Created  []string          `json:"created"`
	Skipped  []SkippedEmployee `json:"skipped"`
}
