package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrderEvent — событие перехода статуса сделки для внешних потребителей.
type OrderEvent struct {
	OrderID    string  `json:"order_id"`
	BuyerID    string  `json:"buyer_id"`
	SellerID   string  `json:"seller_id"`
	FromStatus string  `json:"from_status"`
	ToStatus   string  `json:"to_status"`
	Amount     float64 `json:"amount"`
	OccurredAt string  `json:"occurred_at"`
}

// KafkaPublisher публикует события сделок в Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish отправляет событие; ключом служит order_id, так события
// одной сделки попадают в одну партицию и сохраняют порядок.
func (k *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: msg,
		Time:  time.Now(),
	})
}

// Close останавливает writer.
func (k *KafkaPublisher) Close() error {
	return k.writer.Close()
}
