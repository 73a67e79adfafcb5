package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewConsumer(logger *slog.Logger, channel *amqp.Channel, broker activityBroadcaster) *consumer {
	return &consumer{logger, channel, broker}
}

type activityBroadcaster interface {
	Broadcast(activity Activity)
}

// consumer forwards the activities published on the exchange to a broker. Every instance consumes
// from its own exclusive queue so each of them sees every activity.
type consumer struct {
	logger  *slog.Logger
	channel *amqp.Channel
	broker  activityBroadcaster
}

// Consume binds an exclusive queue to the activity exchange and broadcasts its deliveries until
// the channel is closed. Deliveries are auto acknowledged.
func (c *consumer) Consume() error {
	if err := declareExchange(c.channel); err != nil {
		return fmt.Errorf("failed to declare exchange %q: %v", exchange, err)
	}

	queue, err := c.channel.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare feed queue: %v", err)
	}

	err = c.channel.QueueBind(queue.Name, "", exchange, false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind queue %q to exchange %q: %v", queue.Name, exchange, err)
	}

	deliveries, err := c.channel.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume queue %q: %v", queue.Name, err)
	}

	go func() {
		for delivery := range deliveries {
			var activity Activity
			if err := json.Unmarshal(delivery.Body, &activity); err != nil {
				c.logger.Error("Failed to unmarshal activity", "error", err)
				continue
			}
			c.broker.Broadcast(activity)
		}
		c.logger.Info("Activity deliveries channel closed")
	}()

	return nil
}
