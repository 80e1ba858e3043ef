// Package amqp relays change signals between processes that share a
// database. Each instance publishes to a fanout exchange after every
// save and re-broadcasts consumed signals on its local bus, so open
// calendars and lists refresh no matter which process wrote.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	origin       string
}

func NewClient(url, exchangeName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		origin:       uuid.NewString(),
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	// Fanout exchange: every instance sees every change signal
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"fanout",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	// Per-instance queue; signals are worthless once the instance is gone
	q, err := c.channel.QueueDeclare(
		"",    // name (server-generated)
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	c.queueName = q.Name

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		"",             // routing key (ignored by fanout)
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// Origin returns this instance's identity, stamped on outgoing signals
// so its own messages can be recognized and skipped on the way back in.
func (c *Client) Origin() string {
	if c == nil {
		return ""
	}
	return c.origin
}

// NotifyChanged publishes a change signal. It satisfies the store's
// notifier hook and is safe on a nil client, which is how a process
// without a broker runs. Publish failures are logged, never surfaced:
// the local write already succeeded and must not be rolled back over a
// lost signal.
func (c *Client) NotifyChanged(ctx context.Context) {
	if c == nil {
		return
	}

	msg := NewChangeMessage(c.origin)
	body, err := msg.ToJSON()
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal change message", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		"",             // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        body,
		},
	)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"error", err,
			"exchange", c.exchangeName)
		return
	}

	slog.DebugContext(ctx, "Published change message",
		"origin", c.origin,
		"exchange", c.exchangeName)
}

// Consume invokes handler for every change signal published by another
// instance. Signals stamped with this instance's own origin are dropped;
// the local bus already fired when the write happened, and relaying them
// again would loop. Blocks until ctx is cancelled or the channel closes.
func (c *Client) Consume(ctx context.Context, handler func()) error {
	if c == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer
		true,        // auto-ack (change signals are disposable)
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	slog.InfoContext(ctx, "Started consuming change messages", "queue", c.queueName)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return fmt.Errorf("message channel closed")
			}

			msg, err := ChangeMessageFromJSON(delivery.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Failed to unmarshal change message", "error", err)
				continue
			}

			if msg.Origin == c.origin {
				continue
			}

			slog.DebugContext(ctx, "Processing change message", "origin", msg.Origin)
			handler()
		}
	}
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
