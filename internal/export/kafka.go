package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/sirupsen/logrus"

	"github.com/Rahul-IIT-B/Eterna-labs-assignment/internal/domain"
)

const flushTimeoutMs = 5000

// KafkaPublisher mirrors every refreshed generation to a Kafka topic for
// downstream consumers. It is an optional sink: the service runs fine
// without a broker configured.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *logrus.Entry
}

func NewKafkaPublisher(broker, topic string, logger *logrus.Entry) (*KafkaPublisher, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": broker,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
	p.startDeliveryReport()

	return p, nil
}

// startDeliveryReport drains the producer event channel and surfaces
// per-message delivery failures in the log.
func (p *KafkaPublisher) startDeliveryReport() {
	go func() {
		for e := range p.producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					p.logger.Errorf("Snapshot delivery failed: %v", ev.TopicPartition.Error)
				}
			}
		}
	}()
}

// Run publishes each snapshot from the feed until ctx is cancelled.
func (p *KafkaPublisher) Run(ctx context.Context, snapshots <-chan []domain.TokenRecord) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot := <-snapshots:
			if err := p.publish(snapshot); err != nil {
				p.logger.WithError(err).Error("Failed to publish snapshot")
			}
		}
	}
}

func (p *KafkaPublisher) publish(snapshot []domain.TokenRecord) error {
	payload, err := json.Marshal(struct {
		Tokens      []domain.TokenRecord `json:"tokens"`
		PublishedAt time.Time            `json:"publishedAt"`
	}{
		Tokens:      snapshot,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}

	return p.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &p.topic, Partition: kafka.PartitionAny},
		Value:          payload,
	}, nil)
}

func (p *KafkaPublisher) Close() {
	p.producer.Flush(flushTimeoutMs)
	p.producer.Close()
	p.logger.Info("Kafka producer closed")
}
