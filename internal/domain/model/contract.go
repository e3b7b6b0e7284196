package model

import "github.com/shopspring/decimal"

// Contract is the finalized staffing record handed to account management.
// Positions always equals len(Employees).
type Contract struct {
	Name           string          `json:"name"`
	Federal        bool            `json:"federal"`
	BidAmount      decimal.Decimal `json:"bid_amount"`
	ContractLength int             `json:"contract_length"`
	Positions      int             `json:"positions"`
	PracticeAreas  PracticeAreas   `json:"practice_areas"`
	Employees      []Employee      `json:"employees"`
}

// EmployeeIDs lists the staffed employee IDs in contract order.
func (c Contract) EmployeeIDs() []string {
	ids := make([]string, len(c.Employees))
	for i, e := range c.Employees {
		ids[i] = e.ID
	}
	return ids
}
