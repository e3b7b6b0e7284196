package gateway_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/okian/staffing/internal/adapters/gateway"
	"github.com/okian/staffing/internal/adapters/mq/queue"
	"github.com/okian/staffing/internal/domain/model"
	"github.com/okian/staffing/pkg/logger"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func sampleContract() model.Contract {
	return model.Contract{
		Name:           "acme",
		Federal:        true,
		BidAmount:      decimal.RequireFromString("120000.50"),
		ContractLength: 12,
		Positions:      1,
		PracticeAreas:  model.NewPracticeAreas("Go", "Java"),
		Employees: []model.Employee{
			{ID: "e-1", Name: "Ada", SecurityClearance: true, PracticeAreas: model.NewPracticeAreas("Go", "Java")},
		},
	}
}

func sampleProspect() model.Prospect {
	return model.MustProspect(model.ProspectParams{
		Name:                   "acme",
		ContractLengthInMonths: 12,
		Positions:              3,
		BidAmount:              decimal.NewFromInt(90000),
		PracticeAreas:          []string{"Go"},
	})
}

func TestOutboxes(t *testing.T) {
	Convey("Given outbox sinks over bounded queues", t, func() {
		ctx := context.Background()
		contracts := queue.NewInMemoryQueue[model.Contract](gateway.OutboxContracts, queue.WithCapacity(1))
		prospects := queue.NewInMemoryQueue[model.Prospect](gateway.OutboxRecruiting, queue.WithCapacity(1))
		accounts := gateway.NewAccountManagerOutbox(contracts)
		recruiting := gateway.NewRecruitingOutbox(prospects)

		Convey("When sending within capacity", func() {
			So(accounts.SendContract(ctx, sampleContract()), ShouldBeNil)
			So(recruiting.SendProspect(ctx, sampleProspect()), ShouldBeNil)

			Convey("Then the messages are queued", func() {
				So(contracts.Len(), ShouldEqual, 1)
				So(prospects.Len(), ShouldEqual, 1)
			})

			Convey("And further sends report a full outbox", func() {
				err := accounts.SendContract(ctx, sampleContract())
				So(errors.Is(err, queue.ErrFull), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "acme")
				So(errors.Is(recruiting.SendProspect(ctx, sampleProspect()), queue.ErrFull), ShouldBeTrue)
			})

			Convey("And refused messages are counted", func() {
				_ = accounts.SendContract(ctx, sampleContract())
				_ = recruiting.SendProspect(ctx, sampleProspect())
				_ = recruiting.SendProspect(ctx, sampleProspect())
				So(accounts.Rejected(), ShouldEqual, 1)
				So(recruiting.Rejected(), ShouldEqual, 2)
			})
		})

		Convey("When nothing has been refused", func() {
			So(accounts.SendContract(ctx, sampleContract()), ShouldBeNil)

			Convey("Then the rejection counters are zero", func() {
				So(accounts.Rejected(), ShouldEqual, 0)
				So(recruiting.Rejected(), ShouldEqual, 0)
			})
		})

		Convey("When the outbox is closed", func() {
			_ = prospects.Close()

			Convey("Then sends report it", func() {
				So(errors.Is(recruiting.SendProspect(ctx, sampleProspect()), queue.ErrClosed), ShouldBeTrue)
			})
		})
	})
}

func TestLogDeliverer(t *testing.T) {
	Convey("Given a log deliverer", t, func() {
		var buf bytes.Buffer
		So(logger.Init(logger.WithWriter(&buf)), ShouldBeNil)
		Reset(func() { _ = logger.Init() })

		d := gateway.NewLogDeliverer[model.Contract](gateway.OutboxContracts, nil)

		Convey("When delivering a contract", func() {
			err := d.Deliver(context.Background(), sampleContract())

			Convey("Then the payload is logged as JSON", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "message delivered")
				So(buf.String(), ShouldContainSubstring, "gateway=contracts")
				So(buf.String(), ShouldContainSubstring, "120000.5")
				So(buf.String(), ShouldContainSubstring, "e-1")
			})
		})
	})
}

func TestKafkaDeliverer(t *testing.T) {
	Convey("Given a Kafka deliverer on a mock producer", t, func() {
		ctx := context.Background()
		sp := mocks.NewSyncProducer(t, nil)
		Reset(func() { _ = sp.Close() })

		d := gateway.NewKafkaDeliverer[model.Prospect](sp, "staffing.recruiting", "prospect", "staffer", nil)

		Convey("When the broker accepts the message", func() {
			var got map[string]any
			sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
				return json.Unmarshal(val, &got)
			})
			err := d.Deliver(ctx, sampleProspect())

			Convey("Then the prospect is published as JSON", func() {
				So(err, ShouldBeNil)
				So(got["name"], ShouldEqual, "acme")
				So(got["positions"], ShouldEqual, float64(3))
				So(got["relative_value_per_month_per_position"], ShouldEqual, "2500")
			})
		})

		Convey("When the broker rejects the message", func() {
			sp.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)
			err := d.Deliver(ctx, sampleProspect())

			Convey("Then the failure wraps ErrDeliveryFailed and the cause", func() {
				So(errors.Is(err, gateway.ErrDeliveryFailed), ShouldBeTrue)
				So(errors.Is(err, sarama.ErrNotLeaderForPartition), ShouldBeTrue)
			})
		})

		Convey("When several messages are sent", func() {
			for i := 0; i < 3; i++ {
				sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
					if !json.Valid(val) {
						return fmt.Errorf("invalid json %q", val)
					}
					return nil
				})
			}

			Convey("Then each succeeds", func() {
				for i := 0; i < 3; i++ {
					So(d.Deliver(ctx, sampleProspect()), ShouldBeNil)
				}
			})
		})
	})

	Convey("Given a deliverer without a producer", t, func() {
		d := gateway.NewKafkaDeliverer[model.Contract](nil, "staffing.contracts", "contract", "staffer", nil)

		Convey("Then delivery fails fast", func() {
			So(errors.Is(d.Deliver(context.Background(), sampleContract()), gateway.ErrProducerNotInitialized), ShouldBeTrue)
		})
	})
}
