package period

type CreatePeriodRequest struct {
	Name       string `json:"name" binding:"required"`
	PeriodType string `json:"period_type" binding:"required,oneof=MONTHLY SEMI_MONTHLY WEEKLY BI_WEEKLY"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
}

type PeriodResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PeriodType string `json:"period_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`

	TotalEmployees     int     `json:"total_employees"`
	ProcessedEmployees int     `json:"processed_employees"`
	TotalGrossPay      string  `json:"total_gross_pay"`
	TotalDeductions    string  `json:"total_deductions"`
	TotalNetPay        string  `json:"total_net_pay"`
	SummaryRefreshedAt *string `json:"summary_refreshed_at,omitempty"`
}
