// Package event publishes quiz lifecycle events to a RabbitMQ topic
// exchange. Publishing is best-effort: consumers drive analytics, never
// request handling.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	QuestionAsked   = "quiz.question.asked"
	AnswerSubmitted = "quiz.answer.submitted"
	ModuleCompleted = "quiz.module.completed"
	RoadmapCreated  = "roadmap.created"
)

// Publisher sends JSON events to a topic exchange, routing key = event type.
// A nil Publisher is valid and drops every event, so callers never need to
// branch on whether eventing is configured.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// Publish sends one event. Failures are returned for logging but callers
// treat them as non-fatal.
func (p *Publisher) Publish(eventType string, payload any) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"type":      eventType,
		"timestamp": time.Now().UTC(),
		"payload":   payload,
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		eventType, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if err := p.channel.Close(); err != nil {
		log.Printf("[event] WARN: closing channel: %v", err)
	}
	if err := p.conn.Close(); err != nil {
		log.Printf("[event] WARN: closing connection: %v", err)
	}
}
