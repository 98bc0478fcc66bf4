package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RunHandler processes one run task. A returned error dead-letters the
// message; there is no broker-level redelivery.
type RunHandler interface {
	HandleRun(ctx context.Context, payload RunTaskPayload) error
}

// RunConsumer pulls run tasks off the queue and fans them out to a bounded
// set of workers. Prefetch matches concurrency so the broker never buffers
// more deliveries than the workers can hold.
type RunConsumer struct {
	ch          *amqp.Channel
	handler     RunHandler
	concurrency int
	log         *zap.Logger

	wg sync.WaitGroup
}

func NewRunConsumer(ch *amqp.Channel, handler RunHandler, concurrency int, log *zap.Logger) *RunConsumer {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RunConsumer{
		ch:          ch,
		handler:     handler,
		concurrency: concurrency,
		log:         log.Named("consumer"),
	}
}

// Start begins consuming. It returns once consumption is set up; workers
// drain until the context is cancelled and the delivery channel closes.
// Call Wait to block until in-flight runs finish.
func (c *RunConsumer) Start(ctx context.Context) error {
	if err := c.ch.Qos(c.concurrency, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := c.ch.Consume(RunQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.log.Info("consuming run tasks",
		zap.String("queue", RunQueueName),
		zap.Int("concurrency", c.concurrency))

	for i := 0; i < c.concurrency; i++ {
		c.wg.Add(1)
		go func(worker int) {
			defer c.wg.Done()
			c.work(ctx, worker, deliveries)
		}(i)
	}
	return nil
}

// Wait blocks until all workers have exited.
func (c *RunConsumer) Wait() {
	c.wg.Wait()
}

func (c *RunConsumer) work(ctx context.Context, worker int, deliveries <-chan amqp.Delivery) {
	log := c.log.With(zap.Int("worker", worker))

	for delivery := range deliveries {
		var payload RunTaskPayload
		if err := json.Unmarshal(delivery.Body, &payload); err != nil {
			log.Error("malformed run task, dead-lettering", zap.Error(err))
			if nackErr := delivery.Nack(false, false); nackErr != nil {
				log.Error("failed to nack message", zap.Error(nackErr))
			}
			continue
		}

		log.Info("run task received", zap.String("run_id", payload.TestRunID.String()))

		if err := c.handler.HandleRun(ctx, payload); err != nil {
			log.Error("run task failed, dead-lettering",
				zap.String("run_id", payload.TestRunID.String()), zap.Error(err))
			if nackErr := delivery.Nack(false, false); nackErr != nil {
				log.Error("failed to nack message", zap.Error(nackErr))
			}
			continue
		}

		if err := delivery.Ack(false); err != nil {
			log.Error("failed to ack message",
				zap.String("run_id", payload.TestRunID.String()), zap.Error(err))
		}
	}

	log.Debug("worker stopped")
}
