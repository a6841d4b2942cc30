package structure

type DetailLineRequest struct {
	ComponentID string `json:"component_id" binding:"required"`
	Amount      string `json:"amount"`
	Formula     string `json:"formula"`
	Condition   string `json:"condition"`
}

type CreateStructureRequest struct {
	Name       string              `json:"name" binding:"required"`
	PeriodType string              `json:"period_type" binding:"required,oneof=MONTHLY SEMI_MONTHLY WEEKLY BI_WEEKLY"`
	HourRate   string              `json:"hour_rate"`
	Details    []DetailLineRequest `json:"details" binding:"required,min=1,dive"`
}

type UpdateStructureRequest struct {
	Name       string              `json:"name" binding:"required"`
	PeriodType string              `json:"period_type" binding:"required,oneof=MONTHLY SEMI_MONTHLY WEEKLY BI_WEEKLY"`
	HourRate   string              `json:"hour_rate"`
	Details    []DetailLineRequest `json:"details" binding:"required,min=1,dive"`
}

type DetailLineResponse struct {
	ID            string `json:"id"`
	ComponentID   string `json:"component_id"`
	ComponentCode string `json:"component_code"`
	ComponentName string `json:"component_name"`
	ComponentType string `json:"component_type"`
	Amount        string `json:"amount"`
	Formula       string `json:"formula,omitempty"`
	Condition     string `json:"condition,omitempty"`
}

type StructureResponse struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	PeriodType string               `json:"period_type"`
	HourRate   string               `json:"hour_rate"`
	DocStatus  int                  `json:"docstatus"`
	IsActive   bool                 `json:"is_active"`
	Details    []DetailLineResponse `json:"details,omitempty"`
}

type CreateAssignmentRequest struct {
	EmployeeID  string  `json:"employee_id" binding:"required"`
	StructureID string  `json:"structure_id" binding:"required"`
	BaseSalary  string  `json:"base_salary" binding:"required"`
	FromDate    string  `json:"from_date" binding:"required"`
	ToDate      *string `json:"to_date"`
}

type AssignmentResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	StructureID string  `json:"structure_id"`
	BaseSalary  string  `json:"base_salary"`
	FromDate    string  `json:"from_date"`
	ToDate      *string `json:"to_date,omitempty"`
	DocStatus   int     `json:"docstatus"`
	IsActive    bool    `json:"is_active"`
}
