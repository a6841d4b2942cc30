package component

type CreateComponentRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required,oneof=EARNING DEDUCTION"`
	Category string `json:"category" binding:"required,oneof=FIXED PERCENTAGE FORMULA"`

	Formula   string `json:"formula"`
	Condition string `json:"condition"`

	IsPayable                    bool `json:"is_payable"`
	DependsOnPaymentDays         bool `json:"depends_on_payment_days"`
	IsTaxApplicable              bool `json:"is_tax_applicable"`
	IsStatisticalComponent       bool `json:"is_statistical_component"`
	VariableBasedOnTaxableSalary bool `json:"variable_based_on_taxable_salary"`

	RoundToNearest  int64  `json:"round_to_nearest"`
	PercentageOf    string `json:"percentage_of"`
	PercentageValue string `json:"percentage_value"`
	DisplayOrder    int    `json:"display_order"`
}

type UpdateComponentRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required,oneof=FIXED PERCENTAGE FORMULA"`

	Formula   string `json:"formula"`
	Condition string `json:"condition"`

	IsPayable                    bool `json:"is_payable"`
	DependsOnPaymentDays         bool `json:"depends_on_payment_days"`
	IsTaxApplicable              bool `json:"is_tax_applicable"`
	IsStatisticalComponent       bool `json:"is_statistical_component"`
	VariableBasedOnTaxableSalary bool `json:"variable_based_on_taxable_salary"`

	RoundToNearest  int64  `json:"round_to_nearest"`
	PercentageOf    string `json:"percentage_of"`
	PercentageValue string `json:"percentage_value"`
	DisplayOrder    int    `json:"display_order"`
	IsActive        *bool  `json:"is_active"`
}

type ComponentResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category"`

	Formula   string `json:"formula,omitempty"`
	Condition string `json:"condition,omitempty"`

	IsPayable                    bool `json:"is_payable"`
	DependsOnPaymentDays         bool `json:"depends_on_payment_days"`
	IsTaxApplicable              bool `json:"is_tax_applicable"`
	IsStatisticalComponent       bool `json:"is_statistical_component"`
	VariableBasedOnTaxableSalary bool `json:"variable_based_on_taxable_salary"`

	RoundToNearest  int64  `json:"round_to_nearest,omitempty"`
	PercentageOf    string `json:"percentage_of,omitempty"`
	PercentageValue string `json:"percentage_value,omitempty"`
	DisplayOrder    int    `json:"display_order"`
	IsActive        bool   `json:"is_active"`
}
