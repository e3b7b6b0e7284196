package pool_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/okian/staffing/internal/domain/model"
	"github.com/okian/staffing/internal/domain/pool"
	"github.com/smartystreets/goconvey/convey"
)

func employees(prefix string, n int, clearance bool) []model.Employee {
	out := make([]model.Employee, n)
	for i := range out {
		out[i] = model.Employee{
			ID:                fmt.Sprintf("%s-%d", prefix, i),
			Name:              fmt.Sprintf("%s %d", prefix, i),
			SecurityClearance: clearance,
			PracticeAreas:     model.NewPracticeAreas("Java"),
		}
	}
	return out
}

func ids(es []model.Employee) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.ID
	}
	return out
}

func TestPool_New(t *testing.T) {
	convey.Convey("Given cleared and uncleared snapshots", t, func() {
		cleared := employees("c", 2, true)
		uncleared := employees("u", 3, false)

		convey.Convey("When building the pool", func() {
			p, err := pool.New(cleared, uncleared)

			convey.Convey("Then each partition holds its own employees", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Partition(true).Len(), convey.ShouldEqual, 2)
				convey.So(p.Partition(false).Len(), convey.ShouldEqual, 3)
				convey.So(p.Len(), convey.ShouldEqual, 5)
				convey.So(p.Partition(true).Name(), convey.ShouldEqual, "cleared")
			})

			convey.Convey("And iteration follows snapshot order", func() {
				convey.So(ids(p.Partition(false).Employees()), convey.ShouldResemble, []string{"u-0", "u-1", "u-2"})
			})
		})

		convey.Convey("When an employee appears in both partitions", func() {
			dup := uncleared[0]
			dup.SecurityClearance = true
			_, err := pool.New(append(cleared, dup), uncleared)

			convey.Convey("Then construction fails", func() {
				convey.So(errors.Is(err, pool.ErrDuplicateEmployee), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an employee appears twice in one partition", func() {
			_, err := pool.New(cleared, append(uncleared, uncleared[1]))

			convey.Convey("Then construction fails", func() {
				convey.So(errors.Is(err, pool.ErrDuplicateEmployee), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an uncleared employee is delivered as cleared", func() {
			_, err := pool.New(append(cleared, uncleared[0]), nil)

			convey.Convey("Then construction fails", func() {
				convey.So(errors.Is(err, pool.ErrPartitionMismatch), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When both snapshots are empty", func() {
			p, err := pool.New(nil, nil)

			convey.Convey("Then the pool is empty", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Len(), convey.ShouldEqual, 0)
				convey.So(p.Partition(true).Employees(), convey.ShouldBeEmpty)
			})
		})
	})
}

func TestPool_Remove(t *testing.T) {
	convey.Convey("Given a pool", t, func() {
		uncleared := employees("u", 5, false)
		p, err := pool.New(employees("c", 1, true), uncleared)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When removing employees from their partition", func() {
			n := p.Remove(false, uncleared[1:3])

			convey.Convey("Then they are gone and order is kept for the rest", func() {
				convey.So(n, convey.ShouldEqual, 2)
				convey.So(p.Partition(false).Contains("u-1"), convey.ShouldBeFalse)
				convey.So(ids(p.Partition(false).Employees()), convey.ShouldResemble, []string{"u-0", "u-3", "u-4"})
			})

			convey.Convey("And removing them again is a no-op", func() {
				convey.So(p.Remove(false, uncleared[1:3]), convey.ShouldEqual, 0)
				convey.So(p.Partition(false).Len(), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When removing from the wrong partition", func() {
			n := p.Remove(true, uncleared[:2])

			convey.Convey("Then nothing changes", func() {
				convey.So(n, convey.ShouldEqual, 0)
				convey.So(p.Partition(false).Len(), convey.ShouldEqual, 5)
				convey.So(p.Partition(true).Len(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When removing most of a partition", func() {
			p.Remove(false, uncleared[:4])

			convey.Convey("Then the survivor is still listed", func() {
				convey.So(ids(p.Partition(false).Employees()), convey.ShouldResemble, []string{"u-4"})
			})
		})

		convey.Convey("When a caller mutates the listed employees", func() {
			listed := p.Partition(false).Employees()
			listed[0] = model.Employee{ID: "intruder"}

			convey.Convey("Then the partition is unaffected", func() {
				convey.So(p.Partition(false).Contains("u-0"), convey.ShouldBeTrue)
				convey.So(p.Partition(false).Contains("intruder"), convey.ShouldBeFalse)
			})
		})
	})
}
