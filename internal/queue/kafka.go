package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/IBM/sarama"

	"fakenews/internal/domain"
)

type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return NewKafkaWithProducer(producer, topic), nil
}

// NewKafkaWithProducer wraps an existing producer.
func NewKafkaWithProducer(producer sarama.SyncProducer, topic string) *Kafka {
	return &Kafka{
		producer: producer,
		topic:    topic,
	}
}

func (k *Kafka) Publish(ctx context.Context, a domain.Article) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}

	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(a.ID),
		Value: sarama.ByteEncoder(data),
	})

	return err
}

func (k *Kafka) Close() error {
	return k.producer.Close()
}

type KafkaConsumer struct {
	group   sarama.ConsumerGroup
	topic   string
	logger  *slog.Logger
	handler func(ctx context.Context, a domain.Article) error
}

func NewKafkaConsumer(brokers []string, groupID, topic string, logger *slog.Logger) (*KafkaConsumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	config.Consumer.Offsets.Initial = sarama.OffsetNewest

	group, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		return nil, err
	}

	return &KafkaConsumer{
		group:  group,
		topic:  topic,
		logger: logger.With("component", "kafka_consumer"),
	}, nil
}

func (c *KafkaConsumer) Consume(ctx context.Context, handler func(ctx context.Context, a domain.Article) error) error {
	c.handler = handler

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if err := c.group.Consume(ctx, []string{c.topic}, c); err != nil {
				return err
			}
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.group.Close()
}

func (c *KafkaConsumer) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (c *KafkaConsumer) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (c *KafkaConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var a domain.Article
		if err := json.Unmarshal(msg.Value, &a); err != nil {
			c.logger.Warn("dropping malformed article", "offset", msg.Offset, "error", err)
			session.MarkMessage(msg, "")
			continue
		}

		if err := c.handler(session.Context(), a); err != nil {
			c.logger.Warn("article not acknowledged", "id", a.ID, "offset", msg.Offset, "error", err)
			continue
		}

		session.MarkMessage(msg, "")
	}
	return nil
}
