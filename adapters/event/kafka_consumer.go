package event

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
)

// ProfileEventHandler is implemented by the worker use case.
type ProfileEventHandler interface {
	Execute(ctx context.Context, evt service.ProfileEvent) error
}

type ProfileEventConsumer struct {
	reader  *kafka.Reader
	handler ProfileEventHandler
	logger  logger.Logger
}

func NewProfileEventConsumer(cfg config.Config, handler ProfileEventHandler, log logger.Logger) *ProfileEventConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.ProfileTopic,
		GroupID:  cfg.Kafka.GroupID,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	return &ProfileEventConsumer{reader: reader, handler: handler, logger: log}
}

// Run blocks until ctx is cancelled. Messages that fail to process are left
// uncommitted and will be redelivered after a rebalance or restart.
func (c *ProfileEventConsumer) Run(ctx context.Context) error {
	c.logger.Info("Worker listening", zap.String("topic", c.reader.Config().Topic))
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.logger.Error("Failed to read message from Kafka", err)
			continue
		}

		var evt service.ProfileEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			c.logger.Warn("Skipping malformed profile event", zap.Error(err), zap.ByteString("key", msg.Key))
			c.commit(ctx, msg)
			continue
		}

		log := c.logger.With(zap.String("event_type", string(evt.EventType)), zap.String("user_id", evt.UserID.String()))
		log.Info("Processing profile event")

		if err := c.handler.Execute(ctx, evt); err != nil {
			log.Error("Failed to process profile event", err)
			continue
		}
		c.commit(ctx, msg)
	}
}

func (c *ProfileEventConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil {
		c.logger.Error("Failed to commit message", err)
	}
}

func (c *ProfileEventConsumer) Close() error {
	return c.reader.Close()
}
