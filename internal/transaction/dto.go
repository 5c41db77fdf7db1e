package transaction

import "time"

type createTransactionRequest struct {
	AgentID              uint    `json:"agentId" validate:"required"`
	PropertyAddress      string  `json:"propertyAddress" validate:"required"`
	SaleAmount           float64 `json:"saleAmount" validate:"gte=0"`
	CommissionPercentage float64 `json:"commissionPercentage" validate:"gte=0,lte=100"`
	CompanyGCI           float64 `json:"companyGci" validate:"gte=0"`
	TransactionDate      string  `json:"transactionDate"`
	Status               string  `json:"status"`
}

// TransactionUpdate enumerates exactly the mutable fields of a
// transaction. A nil pointer means "leave unchanged"; there is no
// ad-hoc field allowlisting at apply time.
type TransactionUpdate struct {
	PropertyAddress      *string  `json:"propertyAddress" validate:"omitempty,min=1"`
	SaleAmount           *float64 `json:"saleAmount" validate:"omitempty,gte=0"`
	CommissionPercentage *float64 `json:"commissionPercentage" validate:"omitempty,gte=0,lte=100"`
	CompanyGCI           *float64 `json:"companyGci" validate:"omitempty,gte=0"`
	TransactionDate      *string  `json:"transactionDate"`
	Status               *string  `json:"status"`
}

// Apply copies the provided fields onto t and reports whether CompanyGCI
// actually changed value.
func (u *TransactionUpdate) Apply(t *Transaction) (gciChanged bool, err error) {
	if u.PropertyAddress != nil {
		t.PropertyAddress = *u.PropertyAddress
	}
	if u.SaleAmount != nil {
		t.SaleAmount = *u.SaleAmount
	}
	if u.CommissionPercentage != nil {
		t.CommissionPercentage = *u.CommissionPercentage
	}
	if u.CompanyGCI != nil && *u.CompanyGCI != t.CompanyGCI {
		t.CompanyGCI = *u.CompanyGCI
		gciChanged = true
	}
	if u.TransactionDate != nil {
		parsed, perr := time.Parse(time.RFC3339, *u.TransactionDate)
		if perr != nil {
			return false, perr
		}
		t.TransactionDate = parsed
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	return gciChanged, nil
}
