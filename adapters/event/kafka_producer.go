package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/khoahotran/devconnect/internal/application/service"
	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
)

type KafkaProducerClient struct {
	ProfileEventsWriter *kafka.Writer
	logger              logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Kafka.ProfileTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producer successfully.")
	return &KafkaProducerClient{ProfileEventsWriter: writer, logger: log}, nil
}

// PublishProfileEvent keys messages by user id so events of one user stay ordered.
func (c *KafkaProducerClient) PublishProfileEvent(ctx context.Context, evt service.ProfileEvent) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal profile event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(evt.UserID.String()),
		Value: value,
	}
	if err := c.ProfileEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write profile event: %w", err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.ProfileEventsWriter != nil {
		if err := c.ProfileEventsWriter.Close(); err != nil {
			c.logger.Error("Failed to close Kafka producer", err)
			return
		}
	}
	c.logger.Info("Closed Kafka Producer")
}

// NopPublisher drops every event; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishProfileEvent(context.Context, service.ProfileEvent) error {
	return nil
}
