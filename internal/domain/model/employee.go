package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Employee is a staffing resource. ID is its identity inside a pool.
type Employee struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	SecurityClearance bool          `json:"security_clearance"`
	PracticeAreas     PracticeAreas `json:"practice_areas"`
}

// NewEmployee validates the record and assigns a random ID when id is blank.
func NewEmployee(id, name string, clearance bool, areas ...string) (Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Employee{}, fmt.Errorf("%w: name must not be empty", ErrInvalidEmployee)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	return Employee{
		ID:                id,
		Name:              name,
		SecurityClearance: clearance,
		PracticeAreas:     NewPracticeAreas(areas...),
	}, nil
}

// Qualifies reports whether the employee can fill a position on p.
func (e Employee) Qualifies(p Prospect) bool {
	return p.RequiredBy(e.PracticeAreas)
}
