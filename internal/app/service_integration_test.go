package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/IBM/sarama/mocks"
	"github.com/okian/staffing/internal/adapters/gateway"
	"github.com/okian/staffing/internal/adapters/snapshot"
	service "github.com/okian/staffing/internal/app"
	"github.com/okian/staffing/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const batch = `
prospects:
  - name: bank-modernisation
    contract_length_in_months: 24
    positions: 3
    bid_amount: "1440000"
    practice_areas: [Java]
  - name: agency-portal
    contract_length_in_months: 36
    positions: 3
    bid_amount: "3240000"
    practice_areas: [Go]
    requires_security_clearance: true
  - name: pilot
    contract_length_in_months: 3
    positions: 5
    bid_amount: "900000"
    practice_areas: [Java]
employees:
  - {id: c-1, name: Ada, security_clearance: true, practice_areas: [Go]}
  - {id: c-2, name: Alan, security_clearance: true, practice_areas: [Go, Java]}
  - {id: c-3, name: Barbara, security_clearance: true, practice_areas: [Python]}
  - {id: c-4, name: Frances, security_clearance: true, practice_areas: [Rust]}
  - {id: u-1, name: Grace, practice_areas: [Java]}
  - {id: u-2, name: Ken, practice_areas: [Java, Go]}
  - {id: u-3, name: Dennis, practice_areas: [C]}
  - {id: u-4, name: Margaret, practice_areas: [Java]}
  - {id: u-5, name: Edsger, practice_areas: [Java]}
`

func TestServiceIntegration(t *testing.T) {
	Convey("Given a YAML snapshot and Kafka-backed gateways", t, func() {
		snap, err := snapshot.Parse([]byte(batch))
		So(err, ShouldBeNil)

		sp := mocks.NewSyncProducer(t, nil)
		Reset(func() { _ = sp.Close() })

		topics := map[string]int{}
		// Two contracts and two recruiting hand-offs.
		for i := 0; i < 4; i++ {
			sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
				var payload map[string]any
				if err := json.Unmarshal(val, &payload); err != nil {
					return err
				}
				if _, ok := payload["employees"]; ok {
					topics["contracts"]++
				} else {
					topics["recruiting"]++
				}
				return nil
			})
		}

		svc := service.New(snap, snap,
			service.WithContractDeliverer(gateway.NewKafkaDeliverer[model.Contract](sp, "staffing.contracts", "contract", "staffer", nil)),
			service.WithRecruitingDeliverer(gateway.NewKafkaDeliverer[model.Prospect](sp, "staffing.recruiting", "prospect", "staffer", nil)),
			service.WithDispatcherCount(1),
		)

		Convey("When the batch runs", func() {
			report, err := svc.Run(context.Background())

			Convey("Then the short pilot is screened out", func() {
				So(err, ShouldBeNil)
				So(report.Received, ShouldEqual, 3)
				So(report.Ranked, ShouldEqual, 2)
			})

			Convey("Then the longer federal prospect ranks first and is staffed partially", func() {
				first := report.Outcomes[0]
				So(first.Prospect, ShouldEqual, "agency-portal")
				So(first.Federal, ShouldBeTrue)
				So(first.Employees, ShouldResemble, []string{"c-1", "c-2"})
				So(first.Requested, ShouldEqual, 3)
				So(first.Matched, ShouldEqual, 2)
				So(report.Partial, ShouldEqual, 1)
			})

			Convey("Then the commercial prospect is fully staffed from the uncleared partition", func() {
				second := report.Outcomes[1]
				So(second.Prospect, ShouldEqual, "bank-modernisation")
				So(second.Employees, ShouldResemble, []string{"u-1", "u-2", "u-4"})
				So(report.RemainingUncleared, ShouldEqual, 2)
				So(report.RemainingCleared, ShouldEqual, 2)
			})

			Convey("Then every message reached Kafka", func() {
				So(report.ContractsDelivered, ShouldEqual, 2)
				So(report.RecruitingDelivered, ShouldEqual, 2)
				So(report.DeliveryFailures, ShouldEqual, 0)
				So(fmt.Sprint(topics), ShouldEqual, "map[contracts:2 recruiting:2]")
			})
		})
	})
}
