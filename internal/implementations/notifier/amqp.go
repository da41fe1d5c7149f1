package notifier

import (
	"context"
	e "nudgebot/internal/core/domain/errors"
	"nudgebot/internal/core/domain/logging"
	"nudgebot/internal/core/domain/reminder"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishWithContext(
		ctx context.Context,
		exchange, key string,
		mandatory, immediate bool,
		msg amqp.Publishing,
	) error
}

// AMQP publishes events to a topic exchange using the event type as the
// routing key.
type AMQP struct {
	log       logging.Logger
	publisher Publisher
	exchange  string
	now       func() time.Time
}

func NewAMQP(log logging.Logger, publisher Publisher, exchange string, now func() time.Time) *AMQP {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if publisher == nil {
		panic(e.NewNilArgumentError("publisher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &AMQP{log: log, publisher: publisher, exchange: exchange, now: now}
}

func (a *AMQP) Notify(ctx context.Context, eventType reminder.EventType, payload reminder.Payload) error {
	now := a.now()
	body, err := NewEnvelope(eventType, payload, now).Marshal()
	if err != nil {
		return err
	}

	err = a.publisher.PublishWithContext(ctx, a.exchange, string(eventType), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, a.log, err, logging.Entry("exchange", a.exchange))
		return err
	}
	a.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", a.exchange),
		logging.Entry("RK", eventType),
	)
	return nil
}
