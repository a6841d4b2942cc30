package statutory

type CreateTaxSlabRequest struct {
	MinAmount     string  `json:"min_amount" binding:"required"`
	MaxAmount     *string `json:"max_amount"`
	TaxRate       string  `json:"tax_rate" binding:"required"`
	FixedTax      string  `json:"fixed_tax"`
	EffectiveFrom string  `json:"effective_from" binding:"required"`
	EffectiveTo   *string `json:"effective_to"`
}

type TaxSlabResponse struct {
	ID            string  `json:"id"`
	MinAmount     string  `json:"min_amount"`
	MaxAmount     *string `json:"max_amount,omitempty"`
	TaxRate       string  `json:"tax_rate"`
	FixedTax      string  `json:"fixed_tax"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
	IsActive      bool    `json:"is_active"`
}

type CreateNSSFConfigRequest struct {
	ContributionType string  `json:"contribution_type" binding:"required,oneof=HEALTH_CARE OCCUPATIONAL_RISK PENSION"`
	EmployeeRate     string  `json:"employee_rate" binding:"required"`
	EmployerRate     string  `json:"employer_rate" binding:"required"`
	MaxSalaryCap     string  `json:"max_salary_cap" binding:"required"`
	EffectiveFrom    string  `json:"effective_from" binding:"required"`
	EffectiveTo      *string `json:"effective_to"`
}

type NSSFConfigResponse struct {
	ID               string  `json:"id"`
	ContributionType string  `json:"contribution_type"`
	EmployeeRate     string  `json:"employee_rate"`
	EmployerRate     string  `json:"employer_rate"`
	MaxSalaryCap     string  `json:"max_salary_cap"`
	EffectiveFrom    string  `json:"effective_from"`
	EffectiveTo      *string `json:"effective_to,omitempty"`
	IsActive         bool    `json:"is_active"`
}
