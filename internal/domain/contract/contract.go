// Package contract assembles finalized contracts from staffed prospects.
package contract

import (
	"fmt"

	"github.com/okian/staffing/internal/domain/model"
)

// Build copies the prospect's identity and economics into a contract staffed
// by employees. Positions reflects the employees actually matched, which can
// be fewer than the prospect requested.
func Build(p model.Prospect, employees []model.Employee) (model.Contract, error) {
	if len(employees) == 0 {
		return model.Contract{}, fmt.Errorf("%w: %s", ErrNoEmployees, p.Name())
	}

	staffed := make([]model.Employee, len(employees))
	copy(staffed, employees)

	return model.Contract{
		Name:           p.Name(),
		Federal:        p.RequiresSecurityClearance(),
		BidAmount:      p.BidAmount(),
		ContractLength: p.ContractLengthInMonths(),
		Positions:      len(staffed),
		PracticeAreas:  p.PracticeAreas(),
		Employees:      staffed,
	}, nil
}
