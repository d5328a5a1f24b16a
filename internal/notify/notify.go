package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Xlizer1/janah-server-sub000/internal/models"
)

// Event is the outbound customer notification. Actual delivery (SMS or
// otherwise) is a downstream consumer's job; the core only publishes.
type Event struct {
	EventID     string    `json:"event_id"`
	Phone       string    `json:"phone"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	SentAt      time.Time `json:"sent_at"`
}

type Dispatcher interface {
	Notify(ctx context.Context, e Event) error
}

// NewEvent fills the generated fields and the status-specific message text.
func NewEvent(phone, orderNumber, status string) Event {
	return Event{
		EventID:     uuid.NewString(),
		Phone:       phone,
		OrderNumber: orderNumber,
		Status:      status,
		Message:     StatusMessage(orderNumber, status),
		SentAt:      time.Now().UTC(),
	}
}

func StatusMessage(orderNumber, status string) string {
	switch status {
	case models.StatusPending:
		return fmt.Sprintf("Your order %s has been received and is awaiting confirmation", orderNumber)
	case models.StatusConfirmed:
		return fmt.Sprintf("Your order %s has been confirmed", orderNumber)
	case models.StatusPreparing:
		return fmt.Sprintf("Your order %s is being prepared", orderNumber)
	case models.StatusReadyToShip:
		return fmt.Sprintf("Your order %s is ready to ship", orderNumber)
	case models.StatusShipped:
		return fmt.Sprintf("Your order %s has been shipped", orderNumber)
	case models.StatusDelivered:
		return fmt.Sprintf("Your order %s has been delivered. Thank you!", orderNumber)
	case models.StatusCancelled:
		return fmt.Sprintf("Your order %s has been cancelled", orderNumber)
	default:
		return fmt.Sprintf("Your order %s status is now %s", orderNumber, status)
	}
}

type KafkaDispatcher struct {
	writer *kafka.Writer
}

func NewKafkaDispatcher(brokers []string, topic string) *KafkaDispatcher {
	return &KafkaDispatcher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		},
	}
}

func (d *KafkaDispatcher) Notify(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(e.OrderNumber),
		Value: data,
	}
	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.writer.Close()
}
