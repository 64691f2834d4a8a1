package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/counterdesk/internal/domain"
	"github.com/utafrali/counterdesk/internal/workspace"
	pkgkafka "github.com/utafrali/counterdesk/pkg/kafka"
	"github.com/utafrali/counterdesk/pkg/logger"
)

var (
	_ workspace.AuditPublisher = (*Producer)(nil)
	_ workspace.AuditPublisher = Noop{}
)

type published struct {
	topic string
	event *pkgkafka.Event
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, event *pkgkafka.Event) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{topic: topic, event: event})
	return nil
}

func newTestProducer(f *fakePublisher) *Producer {
	return &Producer{kafka: f, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func cashDraft() *domain.Draft {
	d := domain.NewDraft()
	d.AddOrIncrement("10", "Coxinha", decimal.RequireFromString("7.50"))
	d.AddOrIncrement("10", "Coxinha", decimal.RequireFromString("7.50"))
	d.AddOrIncrement("22", "Suco", decimal.RequireFromString("10.00"))
	d.SetNotes("22", "sem gelo")
	d.SetGeneralNotes("mesa 4")
	d.SetCashTendered(decimal.NewFromInt(30))
	return d
}

func decodeData(t *testing.T, e *pkgkafka.Event, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(e.Data, v))
}

func TestTopics(t *testing.T) {
	assert.Equal(t, "counterdesk.order.submitted", TopicOrderSubmitted)
	assert.Equal(t, "counterdesk.order.updated", TopicOrderUpdated)
	assert.Equal(t, "counterdesk.order.deleted", TopicOrderDeleted)
}

func TestOrderSubmitted(t *testing.T) {
	f := &fakePublisher{}
	p := newTestProducer(f)

	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	ctx = logger.WithSessionID(ctx, "sess-1")

	require.NoError(t, p.OrderSubmitted(ctx, "481", cashDraft()))
	require.Len(t, f.sent, 1)

	sent := f.sent[0]
	assert.Equal(t, TopicOrderSubmitted, sent.topic)
	assert.Equal(t, TopicOrderSubmitted, sent.event.Type)
	assert.Equal(t, "481", sent.event.Key)
	assert.Equal(t, pkgkafka.TopicPrefix, sent.event.Source)
	assert.Equal(t, "corr-1", sent.event.CorrelationID)
	assert.Equal(t, "sess-1", sent.event.SessionID)

	var data OrderData
	decodeData(t, sent.event, &data)
	assert.Equal(t, "481", data.OrderID)
	assert.Equal(t, 2, data.ItemCount)
	assert.Equal(t, "25.00", data.Total)
	assert.Equal(t, "dinheiro", data.PaymentMethod)
	assert.Equal(t, "30.00", data.CashTendered)
	assert.Equal(t, "5.00", data.ChangeDue)
	assert.Equal(t, "mesa 4", data.Notes)

	require.Len(t, data.Items, 2)
	assert.Equal(t, OrderItemData{ProductID: "10", Name: "Coxinha", UnitPrice: "7.50", Quantity: 2}, data.Items[0])
	assert.Equal(t, "sem gelo", data.Items[1].Notes)
}

func TestOrderSubmitted_NonCashOmitsTendered(t *testing.T) {
	f := &fakePublisher{}
	p := newTestProducer(f)

	d := cashDraft()
	d.SetPaymentMethod(domain.PaymentPix)
	require.NoError(t, p.OrderSubmitted(context.Background(), "7", d))

	var data OrderData
	decodeData(t, f.sent[0].event, &data)
	assert.Equal(t, "pix", data.PaymentMethod)
	assert.Empty(t, data.CashTendered)
	assert.Empty(t, data.ChangeDue)
}

func TestOrderUpdated_OmitsPayment(t *testing.T) {
	f := &fakePublisher{}
	p := newTestProducer(f)

	require.NoError(t, p.OrderUpdated(context.Background(), "481", cashDraft()))
	require.Len(t, f.sent, 1)
	assert.Equal(t, TopicOrderUpdated, f.sent[0].topic)

	var data OrderData
	decodeData(t, f.sent[0].event, &data)
	assert.Equal(t, "25.00", data.Total)
	assert.Empty(t, data.PaymentMethod)
	assert.Empty(t, data.CashTendered)
	assert.Empty(t, f.sent[0].event.SessionID)
}

func TestOrderDeleted(t *testing.T) {
	f := &fakePublisher{}
	p := newTestProducer(f)

	require.NoError(t, p.OrderDeleted(context.Background(), "481"))
	require.Len(t, f.sent, 1)
	assert.Equal(t, TopicOrderDeleted, f.sent[0].topic)

	var data OrderDeletedData
	decodeData(t, f.sent[0].event, &data)
	assert.Equal(t, "481", data.OrderID)
}

func TestPublishError(t *testing.T) {
	f := &fakePublisher{err: errors.New("broker down")}
	p := newTestProducer(f)

	err := p.OrderDeleted(context.Background(), "481")
	require.Error(t, err)
	assert.Contains(t, err.Error(), TopicOrderDeleted)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNoop(t *testing.T) {
	var n Noop
	assert.NoError(t, n.OrderSubmitted(context.Background(), "1", domain.NewDraft()))
	assert.NoError(t, n.OrderUpdated(context.Background(), "1", domain.NewDraft()))
	assert.NoError(t, n.OrderDeleted(context.Background(), "1"))
}
