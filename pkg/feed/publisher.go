package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/localhive/event-catalog/pkg/model"
)

// exchange is the fanout exchange catalog writes are announced on.
const exchange = "catalog.activity"

//goland:noinspection GoExportedFuncWithUnexportedType
func NewPublisher(logger *slog.Logger, channel *amqp.Channel) (*publisher, error) {
	err := declareExchange(channel)
	if err != nil {
		return nil, fmt.Errorf("failed to declare exchange %q: %v", exchange, err)
	}
	return &publisher{logger, channel}, nil
}

type publisher struct {
	logger  *slog.Logger
	channel *amqp.Channel
}

// PublishActivity announces the action taken on event. Publishing is best effort, failures are
// logged and never fail the write that caused them.
func (p *publisher) PublishActivity(ctx context.Context, action string, event *model.Event) {
	body, err := json.Marshal(Activity{Action: action, EventID: event.ID, Title: event.Title})
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to marshal activity", "error", err, "action", action, "event", event.ID)
		return
	}

	err = p.channel.PublishWithContext(ctx, exchange, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish activity", "error", err, "action", action, "event", event.ID)
	}
}

func declareExchange(channel *amqp.Channel) error {
	return channel.ExchangeDeclare(exchange, "fanout", false, false, false, false, nil)
}
