package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// DeclareRunQueue sets up the run queue and its dead-letter pair on the
// channel. Safe to call from both publisher and consumer.
func DeclareRunQueue(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(RunDLXName, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter exchange: %w", err)
	}

	dlq, err := ch.QueueDeclare(RunDLQName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare dead letter queue: %w", err)
	}
	if err := ch.QueueBind(dlq.Name, dlqRoutingKey, RunDLXName, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead letter queue: %w", err)
	}

	_, err = ch.QueueDeclare(RunQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    RunDLXName,
		"x-dead-letter-routing-key": dlqRoutingKey,
	})
	if err != nil {
		return fmt.Errorf("failed to declare run queue: %w", err)
	}
	return nil
}

// RunPublisher enqueues run tasks. Every task gets exactly one delivery
// attempt at the transport level; a rejected message goes to the DLQ.
type RunPublisher struct {
	ch  *amqp.Channel
	log *zap.Logger
}

func NewRunPublisher(ch *amqp.Channel, log *zap.Logger) *RunPublisher {
	return &RunPublisher{ch: ch, log: log.Named("publisher")}
}

func (p *RunPublisher) EnqueueRun(ctx context.Context, payload RunTaskPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal run task: %w", err)
	}

	err = p.ch.PublishWithContext(ctx, "", RunQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish run task: %w", err)
	}

	p.log.Debug("run task enqueued", zap.String("run_id", payload.TestRunID.String()))
	return nil
}
