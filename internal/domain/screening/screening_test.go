package screening_test

import (
	"context"
	"testing"

	"github.com/okian/staffing/internal/domain/model"
	"github.com/okian/staffing/internal/domain/screening"
	"github.com/okian/staffing/pkg/logger"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func prospect(name string, months, positions int, bid int64) model.Prospect {
	return model.MustProspect(model.ProspectParams{
		Name:                   name,
		ContractLengthInMonths: months,
		Positions:              positions,
		BidAmount:              decimal.NewFromInt(bid),
		PracticeAreas:          []string{"Java"},
	})
}

func names(prospects []model.Prospect) []string {
	out := make([]string, len(prospects))
	for i, p := range prospects {
		out[i] = p.Name()
	}
	return out
}

func TestScreener_Filters(t *testing.T) {
	Convey("Given a screener with default thresholds", t, func() {
		s := screening.NewScreener()
		ctx := context.Background()

		Convey("When contract length sits on the boundary", func() {
			six := prospect("six", 6, 3, 10_000_000)
			seven := prospect("seven", 7, 3, 10_000_000)
			out := s.Screen(ctx, []model.Prospect{six, seven})

			Convey("Then 6 months is rejected and 7 is kept", func() {
				So(names(out), ShouldResemble, []string{"seven"})
				So(s.Evaluate(six).Reasons, ShouldResemble, []string{screening.ReasonContractTooShort})
			})
		})

		Convey("When team size sits on the boundary", func() {
			two := prospect("two", 12, 2, 10_000_000)
			three := prospect("three", 12, 3, 10_000_000)
			out := s.Screen(ctx, []model.Prospect{two, three})

			Convey("Then 2 positions is rejected and 3 is kept", func() {
				So(names(out), ShouldResemble, []string{"three"})
				So(s.Evaluate(two).Reasons, ShouldResemble, []string{screening.ReasonTeamTooSmall})
			})
		})

		Convey("When the annualized value sits on the floor", func() {
			// 45000 / (12 * 3) * 12 = 15000 exactly.
			atFloor := prospect("at-floor", 12, 3, 45_000)
			aboveFloor := prospect("above-floor", 12, 3, 45_001)
			out := s.Screen(ctx, []model.Prospect{atFloor, aboveFloor})

			Convey("Then exactly the floor is rejected and one unit above is kept", func() {
				So(names(out), ShouldResemble, []string{"above-floor"})
				So(s.Evaluate(atFloor).Reasons, ShouldResemble, []string{screening.ReasonBidBelowFloor})
			})
		})

		Convey("When a prospect fails several rules", func() {
			bad := prospect("bad", 2, 1, 10)

			Convey("Then every failed rule is reported", func() {
				So(s.Evaluate(bad).Reasons, ShouldResemble, []string{
					screening.ReasonContractTooShort,
					screening.ReasonTeamTooSmall,
					screening.ReasonBidBelowFloor,
				})
			})
		})

		Convey("When every prospect is ineligible", func() {
			out := s.Screen(ctx, []model.Prospect{
				prospect("short", 2, 8, 999_999_999),
				prospect("small", 24, 2, 999_999_999),
				prospect("cheap", 24, 8, 1000),
			})

			Convey("Then the result is empty but not nil", func() {
				So(out, ShouldNotBeNil)
				So(out, ShouldBeEmpty)
			})
		})

		Convey("When screening an empty batch", func() {
			So(s.Screen(ctx, nil), ShouldBeEmpty)
		})
	})
}

func TestScreener_Ranking(t *testing.T) {
	Convey("Given eligible prospects", t, func() {
		s := screening.NewScreener()
		ctx := context.Background()

		Convey("When contract lengths differ", func() {
			out := s.Screen(ctx, []model.Prospect{
				prospect("twelve", 12, 3, 1_000_000),
				prospect("thirty-six", 36, 3, 1_000_000),
				prospect("twenty-four", 24, 3, 1_000_000),
			})

			Convey("Then longer contracts rank first", func() {
				So(names(out), ShouldResemble, []string{"thirty-six", "twenty-four", "twelve"})
			})
		})

		Convey("When lengths tie", func() {
			out := s.Screen(ctx, []model.Prospect{
				prospect("cheap", 12, 3, 720_000),
				prospect("rich", 12, 3, 900_000),
			})

			Convey("Then higher value per month per position ranks first", func() {
				So(names(out), ShouldResemble, []string{"rich", "cheap"})
			})
		})

		Convey("When length and relative value tie", func() {
			// Both are worth 2000 per month per position.
			out := s.Screen(ctx, []model.Prospect{
				prospect("four", 12, 4, 96_000),
				prospect("three", 12, 3, 72_000),
			})

			Convey("Then fewer positions ranks first", func() {
				So(names(out), ShouldResemble, []string{"three", "four"})
			})
		})

		Convey("When all keys tie", func() {
			out := s.Screen(ctx, []model.Prospect{
				prospect("first", 12, 3, 72_000),
				prospect("second", 12, 3, 72_000),
			})

			Convey("Then input order is kept", func() {
				So(names(out), ShouldResemble, []string{"first", "second"})
			})
		})

		Convey("When the screening input slice is reused", func() {
			in := []model.Prospect{prospect("b", 12, 3, 72_000), prospect("a", 24, 3, 72_000)}
			_ = s.Screen(ctx, in)

			Convey("Then the caller's slice is not reordered", func() {
				So(names(in), ShouldResemble, []string{"b", "a"})
			})
		})
	})
}

func TestScreener_Options(t *testing.T) {
	Convey("Given a screener with custom thresholds", t, func() {
		s := screening.NewScreener(
			screening.WithMinContractLength(3),
			screening.WithMinPositions(1),
			screening.WithMinAnnualAmountPerRole(decimal.NewFromInt(1000)),
		)

		Convey("Then prospects the defaults reject are eligible", func() {
			p := prospect("small", 4, 1, 1000)
			So(s.Evaluate(p).Eligible(), ShouldBeTrue)
		})

		Convey("Then invalid option values are ignored", func() {
			d := screening.NewScreener(
				screening.WithMinPositions(0),
				screening.WithMinAnnualAmountPerRole(decimal.NewFromInt(-5)),
			)
			So(d.Evaluate(prospect("two", 12, 2, 10_000_000)).Eligible(), ShouldBeFalse)
			So(d.Evaluate(prospect("floor", 12, 3, 45_000)).Eligible(), ShouldBeFalse)
		})
	})
}
