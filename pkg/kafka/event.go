package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/counterdesk/pkg/logger"
)

// Event is the envelope of every audit message. Key is the order id and
// doubles as the Kafka message key.
type Event struct {
	ID            string          `json:"event_id"`
	Type          string          `json:"event_type"`
	Key           string          `json:"key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	SessionID     string          `json:"session_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent encodes data into an event of eventType keyed by key. The
// correlation and session ids come from ctx.
func NewEvent(ctx context.Context, eventType, key string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s data: %w", eventType, err)
	}

	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Key:           key,
		OccurredAt:    time.Now().UTC(),
		Source:        TopicPrefix,
		CorrelationID: logger.CorrelationIDFromContext(ctx),
		SessionID:     logger.SessionIDFromContext(ctx),
		Data:          raw,
	}, nil
}
