package contract_test

import (
	"errors"
	"testing"

	"github.com/okian/staffing/internal/domain/contract"
	"github.com/okian/staffing/internal/domain/model"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given a federal prospect for four positions", t, func() {
		p := model.MustProspect(model.ProspectParams{
			Name:                      "agency",
			ContractLengthInMonths:    24,
			Positions:                 4,
			BidAmount:                 decimal.RequireFromString("1200000.50"),
			PracticeAreas:             []string{"Java", "Cloud"},
			RequiresSecurityClearance: true,
		})
		staff := []model.Employee{
			{ID: "e-1", Name: "Ada", SecurityClearance: true, PracticeAreas: model.NewPracticeAreas("Java", "Cloud")},
			{ID: "e-2", Name: "Linus", SecurityClearance: true, PracticeAreas: model.NewPracticeAreas("Java", "Cloud", "Go")},
		}

		Convey("When building with two matched employees", func() {
			c, err := contract.Build(p, staff)

			Convey("Then the contract mirrors the prospect", func() {
				So(err, ShouldBeNil)
				So(c.Name, ShouldEqual, "agency")
				So(c.Federal, ShouldBeTrue)
				So(c.BidAmount.Equal(p.BidAmount()), ShouldBeTrue)
				So(c.ContractLength, ShouldEqual, 24)
				So(c.PracticeAreas.Slice(), ShouldResemble, []string{"Cloud", "Java"})
			})

			Convey("And positions equals the employees actually matched", func() {
				So(c.Positions, ShouldEqual, 2)
				So(len(c.Employees), ShouldEqual, c.Positions)
				So(c.EmployeeIDs(), ShouldResemble, []string{"e-1", "e-2"})
			})

			Convey("And later changes to the input slice do not leak in", func() {
				staff[0].ID = "changed"
				So(c.Employees[0].ID, ShouldEqual, "e-1")
			})
		})

		Convey("When no employees matched", func() {
			_, err := contract.Build(p, nil)

			Convey("Then it fails with ErrNoEmployees", func() {
				So(errors.Is(err, contract.ErrNoEmployees), ShouldBeTrue)
			})
		})
	})
}
