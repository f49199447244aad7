package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	"logihub/internal/logx"
	"logihub/internal/service/quoterequests"
)

// Handler processes one decoded quote-request event. A non-nil error leaves
// the message unmarked so the group redelivers it.
type Handler interface {
	Process(ctx context.Context, ev quoterequests.Event) error
}

// Consumer reads quote-request events from a Kafka topic as part of a
// consumer group.
type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler Handler
	log     logx.Logger
}

// NewConsumer joins the consumer group on the given brokers.
func NewConsumer(brokers []string, groupID, topic string, handler Handler, log logx.Logger) (*Consumer, error) {
	if log == nil {
		log = logx.Nop()
	}

	cfg := sarama.NewConfig()
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("join consumer group: %w", err)
	}
	return &Consumer{group: group, topic: topic, handler: handler, log: log}, nil
}

// Run consumes until ctx is cancelled. Rebalances restart the claim loop.
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.log.Error("consumer group error", logx.Any("error", err))
		}
	}()

	h := &groupHandler{handler: c.handler, log: c.log}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, h); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			c.log.Error("consume failed", logx.Any("error", err))
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Close leaves the group.
func (c *Consumer) Close() error {
	return c.group.Close()
}

type groupHandler struct {
	handler Handler
	log     logx.Logger
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			ev, err := decodeEvent(msg.Value)
			if err != nil {
				// Poison messages are logged and skipped.
				h.log.Warn("skipping undecodable message",
					logx.String("topic", msg.Topic),
					logx.Int("partition", int(msg.Partition)),
					logx.Any("error", err),
				)
				session.MarkMessage(msg, "")
				continue
			}

			if err := h.handler.Process(session.Context(), ev); err != nil {
				h.log.Error("event processing failed, will redeliver",
					logx.String("topic", msg.Topic),
					logx.Any("error", err),
				)
				return err
			}
			session.MarkMessage(msg, "")
		}
	}
}

func decodeEvent(value []byte) (quoterequests.Event, error) {
	var ev quoterequests.Event
	if err := json.Unmarshal(value, &ev); err != nil {
		return quoterequests.Event{}, fmt.Errorf("decode event: %w", err)
	}
	return ev, nil
}
