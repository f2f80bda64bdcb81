// Package eventbus publishes the core's fire-and-forget side effects —
// booking lifecycle transitions, payment outcomes, and post-commit receipt
// jobs (spec.md §4.4.2) — onto Kafka topics. Nothing in the booking pipeline
// blocks on these sends succeeding.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"flightcore/internal/config"
	"flightcore/internal/domain"
)

// BookingEvent is published on every Booking state transition.
type BookingEvent struct {
	BookingReference string               `json:"booking_reference"`
	FlightID         int64                `json:"flight_id"`
	Status           domain.BookingStatus `json:"status"`
	Timestamp        time.Time            `json:"timestamp"`
}

// PaymentEvent is published after every payment adapter invocation.
type PaymentEvent struct {
	BookingReference string                `json:"booking_reference"`
	Amount           string                `json:"amount"`
	Status           domain.PaymentOutcome `json:"status"`
	TransactionID    string                `json:"transaction_id"`
	Timestamp        time.Time             `json:"timestamp"`
}

// ReceiptJob is the post-commit fire-and-forget receipt hand-off (spec.md
// §4.4.2, §4.5). The external renderer (out of scope) consumes this topic.
type ReceiptJob struct {
	Receipt   domain.Receipt `json:"receipt"`
	Timestamp time.Time      `json:"timestamp"`
}

// Producer publishes the core's events to Kafka.
type Producer struct {
	bookingWriter *kafka.Writer
	paymentWriter *kafka.Writer
	receiptWriter *kafka.Writer
}

// NewProducer creates a new Kafka producer for each of the core's topics.
func NewProducer(cfg *config.KafkaConfig) *Producer {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		}
	}

	return &Producer{
		bookingWriter: newWriter(cfg.TopicBookings),
		paymentWriter: newWriter(cfg.TopicPayments),
		receiptWriter: newWriter(cfg.TopicReceipts),
	}
}

// SendBookingEvent publishes a booking lifecycle transition.
func (p *Producer) SendBookingEvent(ctx context.Context, event BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}
	return p.bookingWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BookingReference),
		Value: data,
	})
}

// SendPaymentEvent publishes a payment outcome.
func (p *Producer) SendPaymentEvent(ctx context.Context, event PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}
	return p.paymentWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.BookingReference),
		Value: data,
	})
}

// SendReceiptJob enqueues a receipt for out-of-core rendering/delivery.
func (p *Producer) SendReceiptJob(ctx context.Context, job ReceiptJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt job: %w", err)
	}
	return p.receiptWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(job.Receipt.BookingReference),
		Value: data,
	})
}

// Close closes all underlying writers.
func (p *Producer) Close() error {
	var firstErr error
	for _, w := range []*kafka.Writer{p.bookingWriter, p.paymentWriter, p.receiptWriter} {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
