// Package snapshot reads the batch input, prospects and employees, from a
// YAML document and serves it to a run as prospect and employee sources.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/okian/staffing/internal/domain/model"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// ProspectRecord is one prospect as written in a snapshot file. The bid is a
// decimal string so amounts survive the round trip exactly.
type ProspectRecord struct {
	Name                      string   `yaml:"name" validate:"required"`
	ContractLengthInMonths    int      `yaml:"contract_length_in_months" validate:"gt=0"`
	Positions                 int      `yaml:"positions" validate:"gt=0"`
	BidAmount                 string   `yaml:"bid_amount" validate:"required,numeric"`
	PracticeAreas             []string `yaml:"practice_areas" validate:"dive,required"`
	RequiresSecurityClearance bool     `yaml:"requires_security_clearance"`
}

// EmployeeRecord is one employee as written in a snapshot file. A blank ID
// is replaced by a random one on load.
type EmployeeRecord struct {
	ID                string   `yaml:"id,omitempty"`
	Name              string   `yaml:"name" validate:"required"`
	SecurityClearance bool     `yaml:"security_clearance"`
	PracticeAreas     []string `yaml:"practice_areas" validate:"dive,required"`
}

// File is the on-disk snapshot document.
type File struct {
	Prospects []ProspectRecord `yaml:"prospects"`
	Employees []EmployeeRecord `yaml:"employees"`
}

// Validate checks every record's shape.
func (f *File) Validate() error {
	for i := range f.Prospects {
		if err := validate.Struct(&f.Prospects[i]); err != nil {
			return fmt.Errorf("%w: prospect %d (%q): %w", ErrInvalidSnapshot, i, f.Prospects[i].Name, err)
		}
	}
	for i := range f.Employees {
		if err := validate.Struct(&f.Employees[i]); err != nil {
			return fmt.Errorf("%w: employee %d (%q): %w", ErrInvalidSnapshot, i, f.Employees[i].Name, err)
		}
	}
	return nil
}

// Encode renders f as YAML.
func (f *File) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Snapshot is a validated batch input. It satisfies the prospect and
// employee sources of a run.
type Snapshot struct {
	prospects []model.Prospect
	cleared   []model.Employee
	uncleared []model.Employee
}

// Load reads and parses the snapshot at path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidSnapshot, path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML snapshot. Unknown keys, invalid records and
// duplicate employee IDs are rejected. An empty document is an empty
// snapshot.
func Parse(data []byte) (*Snapshot, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidSnapshot, err)
	}
	return FromFile(&f)
}

// FromFile validates f and converts it to domain values. Employees are
// partitioned by their clearance flag in file order.
func FromFile(f *File) (*Snapshot, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	s := &Snapshot{prospects: make([]model.Prospect, 0, len(f.Prospects))}
	for i, r := range f.Prospects {
		bid, err := decimal.NewFromString(r.BidAmount)
		if err != nil {
			return nil, fmt.Errorf("%w: prospect %d (%q): bid_amount: %w", ErrInvalidSnapshot, i, r.Name, err)
		}
		p, err := model.NewProspect(model.ProspectParams{
			Name:                      r.Name,
			ContractLengthInMonths:    r.ContractLengthInMonths,
			Positions:                 r.Positions,
			BidAmount:                 bid,
			PracticeAreas:             r.PracticeAreas,
			RequiresSecurityClearance: r.RequiresSecurityClearance,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: prospect %d: %w", ErrInvalidSnapshot, i, err)
		}
		s.prospects = append(s.prospects, p)
	}

	seen := make(map[string]int, len(f.Employees))
	for i, r := range f.Employees {
		e, err := model.NewEmployee(r.ID, r.Name, r.SecurityClearance, r.PracticeAreas...)
		if err != nil {
			return nil, fmt.Errorf("%w: employee %d: %w", ErrInvalidSnapshot, i, err)
		}
		if first, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: employee %d reuses id %q of employee %d", ErrInvalidSnapshot, i, e.ID, first)
		}
		seen[e.ID] = i
		if e.SecurityClearance {
			s.cleared = append(s.cleared, e)
		} else {
			s.uncleared = append(s.uncleared, e)
		}
	}
	return s, nil
}

// Prospects returns the snapshot's prospects in file order.
func (s *Snapshot) Prospects(ctx context.Context) ([]model.Prospect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]model.Prospect(nil), s.prospects...), nil
}

// Employees returns the cleared and uncleared employees in file order.
func (s *Snapshot) Employees(ctx context.Context) (cleared, uncleared []model.Employee, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return append([]model.Employee(nil), s.cleared...), append([]model.Employee(nil), s.uncleared...), nil
}
