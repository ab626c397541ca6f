package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/models"
)

func TestNewEvent(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "req-123")
	order := &models.Order{ID: 1001, Status: "pending", Total: "25.00"}

	event, err := NewEvent(ctx, EventTypeOrderPlaced, order.ID, order)
	require.NoError(t, err)

	_, err = uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.Equal(t, EventTypeOrderPlaced, event.Type)
	assert.Equal(t, int64(1001), event.OrderID)
	assert.Equal(t, "req-123", event.CorrelationID)

	var decoded models.Order
	require.NoError(t, json.Unmarshal(event.Data, &decoded))
	assert.Equal(t, "25.00", decoded.Total)
}

func TestNewEvent_WithoutCorrelation(t *testing.T) {
	event, err := NewEvent(context.Background(), EventTypePaymentInitiated, 7, &models.ProcessPaymentResponse{OrderID: 7})
	require.NoError(t, err)
	assert.Empty(t, event.CorrelationID)
}

func TestMockPublisher(t *testing.T) {
	m := NewMockPublisher()
	ctx := context.Background()

	require.NoError(t, m.PublishOrderPlaced(ctx, &models.Order{ID: 1}))
	require.NoError(t, m.PublishPaymentInitiated(ctx, &models.ProcessPaymentResponse{OrderID: 1}))

	assert.Equal(t, []EventType{EventTypeOrderPlaced, EventTypePaymentInitiated}, m.Types())
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.PublishOrderPlaced(context.Background(), &models.Order{ID: 1}))
	assert.NoError(t, p.Close())
}
