// Package events publishes transaction lifecycle events to an AMQP
// topic exchange. Publishing is fire-and-forget: a broker outage is
// logged and never fails the request that triggered the event.
package events

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/rkataria99/ExpenseApp-backend/models"
)

const (
	RoutingCreated = "transaction.created"
	RoutingDeleted = "transaction.deleted"
	RoutingCleared = "transaction.cleared"
)

type TransactionEvent struct {
	Event  string    `json:"event"`
	ID     string    `json:"id,omitempty"`
	User   string    `json:"user"`
	Type   string    `json:"type,omitempty"`
	Amount float64   `json:"amount,omitempty"`
	Date   time.Time `json:"date,omitempty"`
}

// Publisher emits events to one exchange. A nil Publisher is a no-op,
// so the server runs unchanged without a broker configured.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher connects to the broker and declares the topic exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.channel.Close()
	p.conn.Close()
}

func (p *Publisher) publish(routingKey string, event TransactionEvent) {
	if p == nil {
		return
	}
	event.Event = routingKey

	body, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Str("event", routingKey).Msg("Event marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		log.Warn().Err(err).Str("event", routingKey).Msg("Event publish failed")
	}
}

func (p *Publisher) TransactionCreated(tx *models.Transaction) {
	p.publish(RoutingCreated, TransactionEvent{
		ID:     tx.ID,
		User:   tx.UserID,
		Type:   tx.Type,
		Amount: tx.Amount,
		Date:   tx.Date,
	})
}

func (p *Publisher) TransactionDeleted(owner, id string) {
	p.publish(RoutingDeleted, TransactionEvent{ID: id, User: owner})
}

func (p *Publisher) TransactionsCleared(owner string) {
	p.publish(RoutingCleared, TransactionEvent{User: owner})
}
