package events

import (
	"encoding/json"
	"fmt"

	"github.com/Capitan-Parrot/surveillance-console/internal/models"
	"github.com/IBM/sarama"
)

// Producer публикует события аудита действий оператора
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}

	return &Producer{
		producer: producer,
		topic:    topic,
	}, nil
}

func (p *Producer) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// SendOperatorEvent отправляет одно событие аудита, ключ — id сущности
func (p *Producer) SendOperatorEvent(event models.OperatorEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	kafkaMsg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.EntityID),
		Value: sarama.ByteEncoder(payload),
	}

	_, _, err = p.producer.SendMessage(kafkaMsg)
	if err != nil {
		return err
	}

	return nil
}
