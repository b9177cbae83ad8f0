// Package events publishes order and delivery lifecycle events so dashboards
// and rider apps can react without polling.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const (
	OrderPlaced       = "order.placed"
	DeliveryAvailable = "delivery.available"
	DeliveryCompleted = "delivery.completed"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
}

// OrderPlacedEvent is sent once per persisted order.
type OrderPlacedEvent struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
	Region  string `json:"region"`
	Total   int    `json:"orderTotal"`
	Payment string `json:"paymentMethod"`
}

// DeliveryEvent is sent when an item starts cooking (available to riders)
// and when a rider completes it.
type DeliveryEvent struct {
	ItemID string `json:"itemId"`
	Kind   string `json:"orderType"`
	Region string `json:"region,omitempty"`
	Rider  string `json:"rider,omitempty"`
}

type NATS struct {
	nc     *nats.Conn
	prefix string
}

var _ Publisher = (*NATS)(nil)

func NewNATS(nc *nats.Conn, prefix string) *NATS {
	return &NATS{nc: nc, prefix: prefix}
}

// Connect dials url and wraps the connection.
func Connect(url, prefix string) (*NATS, error) {
	nc, err := nats.Connect(url, nats.Name("dinedash-server"))
	if err != nil {
		return nil, fmt.Errorf("events: connect %s: %w", url, err)
	}
	return NewNATS(nc, prefix), nil
}

// Publish sends v as JSON on <prefix>.<subject>.
func (n *NATS) Publish(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &nats.Msg{
		Subject: n.prefix + "." + subject,
		Header:  nats.Header{},
		Data:    data,
	}
	msg.Header.Set("Content-Type", "application/json")
	if err := n.nc.PublishMsg(msg); err != nil {
		slog.ErrorContext(ctx, "failed to publish event", "subject", msg.Subject, "error", err)
		return err
	}
	return nil
}

// Ping reports whether the connection is usable.
func (n *NATS) Ping(context.Context) error {
	if !n.nc.IsConnected() {
		return fmt.Errorf("events: nats status %s", n.nc.Status())
	}
	return nil
}

func (n *NATS) Close() {
	n.nc.Close()
}

// Nop drops every event.
type Nop struct{}

var _ Publisher = Nop{}

func (Nop) Publish(context.Context, string, any) error { return nil }
