package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/counterdesk/internal/domain"
	pkgkafka "github.com/utafrali/counterdesk/pkg/kafka"
)

// Kafka topics for counter order audit events.
var (
	TopicOrderSubmitted = pkgkafka.Topic("order", "submitted")
	TopicOrderUpdated   = pkgkafka.Topic("order", "updated")
	TopicOrderDeleted   = pkgkafka.Topic("order", "deleted")
)

// OrderData is the payload of submitted and updated events.
type OrderData struct {
	OrderID       string          `json:"order_id"`
	Items         []OrderItemData `json:"items"`
	ItemCount     int             `json:"item_count"`
	Total         string          `json:"total"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	CashTendered  string          `json:"cash_tendered,omitempty"`
	ChangeDue     string          `json:"change_due,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// OrderItemData is one line within order events.
type OrderItemData struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes,omitempty"`
}

// OrderDeletedData is the payload of a deleted event.
type OrderDeletedData struct {
	OrderID string `json:"order_id"`
}

// publisher is the subset of *pkgkafka.Producer used here.
type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes counter order events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// OrderSubmitted publishes an order.submitted event.
func (p *Producer) OrderSubmitted(ctx context.Context, orderID string, d *domain.Draft) error {
	data := orderData(orderID, d, true)
	return p.publish(ctx, TopicOrderSubmitted, orderID, data)
}

// OrderUpdated publishes an order.updated event. Payment is not part of an update.
func (p *Producer) OrderUpdated(ctx context.Context, orderID string, d *domain.Draft) error {
	data := orderData(orderID, d, false)
	return p.publish(ctx, TopicOrderUpdated, orderID, data)
}

// OrderDeleted publishes an order.deleted event.
func (p *Producer) OrderDeleted(ctx context.Context, orderID string) error {
	return p.publish(ctx, TopicOrderDeleted, orderID, OrderDeletedData{OrderID: orderID})
}

func (p *Producer) publish(ctx context.Context, topic, orderID string, data any) error {
	event, err := pkgkafka.NewEvent(ctx, topic, orderID, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published order event",
		slog.String("topic", topic),
		slog.String("order_id", orderID),
	)
	return nil
}

func orderData(orderID string, d *domain.Draft, withPayment bool) OrderData {
	lines := d.Items()
	items := make([]OrderItemData, len(lines))
	for i, it := range lines {
		items[i] = OrderItemData{
			ProductID: it.ProductID.String(),
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			Notes:     it.Notes,
		}
	}

	total := domain.Total(d)
	data := OrderData{
		OrderID:   orderID,
		Items:     items,
		ItemCount: len(items),
		Total:     total.StringFixed(2),
		Notes:     d.GeneralNotes(),
	}
	if withPayment {
		data.PaymentMethod = string(d.PaymentMethod())
		if tendered := d.CashTendered(); tendered.Valid {
			data.CashTendered = tendered.Decimal.StringFixed(2)
			data.ChangeDue = domain.ChangeDue(tendered, total).Decimal.StringFixed(2)
		}
	}
	return data
}

// Noop discards every event. It stands in when Kafka is disabled.
type Noop struct{}

func (Noop) OrderSubmitted(context.Context, string, *domain.Draft) error { return nil }
func (Noop) OrderUpdated(context.Context, string, *domain.Draft) error   { return nil }
func (Noop) OrderDeleted(context.Context, string) error                  { return nil }
