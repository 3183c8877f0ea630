package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cabinet-portal/internal/domain/entity"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

var ErrEventNotConfirmed = errors.New("event not confirmed by broker")

// EventPublisher announces rendez-vous lifecycle changes.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.RendezVousEvent) error
}

// publishChannel is the subset of *amqp.Channel used to publish.
type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type amqpEventPublisher struct {
	mu       sync.Mutex
	ch       publishChannel
	confirms <-chan amqp.Confirmation
	exchange string
	log      *logrus.Logger
}

// NewAMQPEventPublisher declares a durable topic exchange and puts the channel in confirm mode.
func NewAMQPEventPublisher(conn *amqp.Connection, exchange string, log *logrus.Logger) (EventPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("enable confirms: %w", err)
	}

	return newAMQPEventPublisher(ch, ch.NotifyPublish(make(chan amqp.Confirmation, 1)), exchange, log), nil
}

func newAMQPEventPublisher(ch publishChannel, confirms <-chan amqp.Confirmation, exchange string, log *logrus.Logger) *amqpEventPublisher {
	return &amqpEventPublisher{
		ch:       ch,
		confirms: confirms,
		exchange: exchange,
		log:      log,
	}
}

// Publish waits for the broker confirmation. Callers treat failures as non-fatal.
func (p *amqpEventPublisher) Publish(ctx context.Context, event entity.RendezVousEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Action),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, event.RoutingKey(), false, false, msg); err != nil {
		p.log.Warnf("Failed to publish event %s: %+v", event.RoutingKey(), err)
		return fmt.Errorf("publish %s: %w", event.RoutingKey(), err)
	}

	select {
	case confirmed := <-p.confirms:
		if !confirmed.Ack {
			return ErrEventNotConfirmed
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	p.log.Debugf("Published event %s for rendez-vous %s", event.RoutingKey(), event.RendezVousID)
	return nil
}

type logEventPublisher struct {
	log *logrus.Logger
}

// NewLogEventPublisher is used when no broker is configured: events are only logged.
func NewLogEventPublisher(log *logrus.Logger) EventPublisher {
	return &logEventPublisher{log: log}
}

func (p *logEventPublisher) Publish(ctx context.Context, event entity.RendezVousEvent) error {
	p.log.WithFields(logrus.Fields{
		"event":         event.RoutingKey(),
		"rendezvous_id": event.RendezVousID,
		"from":          event.FromEtat,
		"to":            event.ToEtat,
		"actor_id":      event.ActorID,
	}).Info("Rendez-vous event")
	return nil
}
