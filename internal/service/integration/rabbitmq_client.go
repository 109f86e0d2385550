package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/skillforge/certification-service/internal/models"
)

const (
	routingKeySubmissionReceived = "submission.received"
	routingKeySubmissionReviewed = "submission.reviewed"
)

// EventPublisher feeds the notification pipeline: the consumer side turns
// these events into student/reviewer notifications.
type EventPublisher interface {
	PublishSubmissionReceived(ctx context.Context, event *models.SubmissionReceivedEvent) error
	PublishSubmissionReviewed(ctx context.Context, event *models.SubmissionReviewedEvent) error
	Close() error
}

type rabbitMQPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   zerolog.Logger
}

func NewRabbitMQPublisher(url, exchange, receivedQueue, reviewedQueue string, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"direct", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	bindings := []struct {
		queue      string
		routingKey string
	}{
		{receivedQueue, routingKeySubmissionReceived},
		{reviewedQueue, routingKeySubmissionReviewed},
	}

	for _, b := range bindings {
		queue, err := channel.QueueDeclare(
			b.queue, // name
			true,    // durable
			false,   // delete when unused
			false,   // exclusive
			false,   // no-wait
			nil,     // arguments
		)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", b.queue, err)
		}

		err = channel.QueueBind(
			queue.Name,   // queue name
			b.routingKey, // routing key
			exchange,     // exchange
			false,        // no-wait
			nil,          // arguments
		)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue %s: %w", b.queue, err)
		}
	}

	logger.Info().
		Str("exchange", exchange).
		Str("received_queue", receivedQueue).
		Str("reviewed_queue", reviewedQueue).
		Msg("Connected to RabbitMQ")

	return &rabbitMQPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (p *rabbitMQPublisher) PublishSubmissionReceived(ctx context.Context, event *models.SubmissionReceivedEvent) error {
	if err := p.publish(ctx, routingKeySubmissionReceived, event); err != nil {
		return err
	}

	p.logger.Info().
		Str("submission_id", event.SubmissionID).
		Str("phase_id", event.PhaseID).
		Msg("Submission received event published")

	return nil
}

func (p *rabbitMQPublisher) PublishSubmissionReviewed(ctx context.Context, event *models.SubmissionReviewedEvent) error {
	if err := p.publish(ctx, routingKeySubmissionReviewed, event); err != nil {
		return err
	}

	p.logger.Info().
		Str("submission_id", event.SubmissionID).
		Str("status", event.Status).
		Msg("Submission reviewed event published")

	return nil
}

func (p *rabbitMQPublisher) publish(ctx context.Context, routingKey string, event interface{}) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		publishCtx,
		p.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (p *rabbitMQPublisher) Close() error {
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			p.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}
