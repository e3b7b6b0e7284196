package snapshot

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"
)

// Generator defaults.
const (
	defaultGeneratedProspects = 20
	defaultGeneratedEmployees = 60
	defaultClearedPercent     = 30

	maxContractMonths  = 48
	maxPositions       = 10
	minMonthlyRate     = 500
	monthlyRateRange   = 2500
	maxEmployeeAreas   = 3
	maxProspectAreas   = 2
	percent            = 100
	shortIDLength      = 8
	prospectClearedPct = 25
)

var defaultPracticeAreas = []string{"Java", "Go", "Python", "Cloud", "Data", "Security", "Frontend", "DevOps"}

type generateOptions struct {
	prospects      int
	employees      int
	clearedPercent int
	practiceAreas  []string
}

// GenerateOption configures Generate.
type GenerateOption func(*generateOptions)

// WithProspects sets the number of generated prospects.
func WithProspects(n int) GenerateOption {
	return func(o *generateOptions) {
		if n >= 0 {
			o.prospects = n
		}
	}
}

// WithEmployees sets the number of generated employees.
func WithEmployees(n int) GenerateOption {
	return func(o *generateOptions) {
		if n >= 0 {
			o.employees = n
		}
	}
}

// WithClearedPercent sets the share of employees holding a clearance.
func WithClearedPercent(p int) GenerateOption {
	return func(o *generateOptions) {
		if p >= 0 && p <= percent {
			o.clearedPercent = p
		}
	}
}

// WithPracticeAreas sets the catalogue generated records draw from.
func WithPracticeAreas(areas ...string) GenerateOption {
	return func(o *generateOptions) {
		if len(areas) > 0 {
			o.practiceAreas = areas
		}
	}
}

// Generate builds a random but valid snapshot document for trial runs.
// Bids are priced per month per position so that part of the prospects
// clear the default screening floor.
func Generate(opts ...GenerateOption) *File {
	o := generateOptions{
		prospects:      defaultGeneratedProspects,
		employees:      defaultGeneratedEmployees,
		clearedPercent: defaultClearedPercent,
		practiceAreas:  defaultPracticeAreas,
	}
	for _, opt := range opts {
		opt(&o)
	}

	f := &File{
		Prospects: make([]ProspectRecord, o.prospects),
		Employees: make([]EmployeeRecord, o.employees),
	}
	for i := range f.Prospects {
		months := 1 + randInt(maxContractMonths)
		positions := 1 + randInt(maxPositions)
		rate := minMonthlyRate + randInt(monthlyRateRange)
		f.Prospects[i] = ProspectRecord{
			Name:                      "prospect-" + uuid.NewString()[:shortIDLength],
			ContractLengthInMonths:    months,
			Positions:                 positions,
			BidAmount:                 strconv.Itoa(months * positions * rate),
			PracticeAreas:             pickAreas(o.practiceAreas, 1+randInt(maxProspectAreas)),
			RequiresSecurityClearance: randInt(percent) < prospectClearedPct,
		}
	}
	for i := range f.Employees {
		f.Employees[i] = EmployeeRecord{
			ID:                uuid.NewString(),
			Name:              fmt.Sprintf("employee-%03d", i),
			SecurityClearance: randInt(percent) < o.clearedPercent,
			PracticeAreas:     pickAreas(o.practiceAreas, 1+randInt(maxEmployeeAreas)),
		}
	}
	return f
}

// pickAreas draws n distinct areas from catalogue.
func pickAreas(catalogue []string, n int) []string {
	if n > len(catalogue) {
		n = len(catalogue)
	}
	pool := append([]string(nil), catalogue...)
	out := make([]string, 0, n)
	for len(out) < n {
		j := randInt(len(pool))
		out = append(out, pool[j])
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return out
}

// randInt returns a uniform value in [0, n) using crypto/rand.
func randInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
