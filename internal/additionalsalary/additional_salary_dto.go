package additionalsalary

type CreateAdditionalSalaryRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required"`
	ComponentID string `json:"component_id" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	PayrollDate string `json:"payroll_date" binding:"required"`
	Reason      string `json:"reason"`
}

type AdditionalSalaryResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	ComponentID   string `json:"component_id"`
	ComponentCode string `json:"component_code,omitempty"`
	Amount        string `json:"amount"`
	PayrollDate   string `json:"payroll_date"`
	Reason        string `json:"reason,omitempty"`
	Status        string `json:"status"`
}
