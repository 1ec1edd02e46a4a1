package mq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAdminEvent_RoutingKey(t *testing.T) {
	tests := []struct {
		resource  string
		eventType string
		want      string
	}{
		{ResourceThreshold, EventCreated, "admin.threshold.created"},
		{ResourceThreshold, EventDeleted, "admin.threshold.deleted"},
		{ResourceDevice, EventUpdated, "admin.device.updated"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			e := AdminEvent{Resource: tt.resource, EventType: tt.eventType}
			assert.Equal(t, tt.want, e.RoutingKey())
		})
	}
}

func TestAdminEvent_JSONShape(t *testing.T) {
	e := AdminEvent{
		EventType:  EventCreated,
		Resource:   ResourceDevice,
		ResourceID: "D1",
		Actor:      "ADMIN",
		OccurredAt: "2025-01-01 10:00:00",
	}

	body, err := json.Marshal(e)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, map[string]string{
		"event_type":  "created",
		"resource":    "device",
		"resource_id": "D1",
		"actor":       "ADMIN",
		"occurred_at": "2025-01-01 10:00:00",
	}, decoded)
}

func TestNopPublisher(t *testing.T) {
	p := NewNopPublisher(zap.NewNop())
	assert.NoError(t, p.PublishAdminEvent(context.Background(), AdminEvent{Resource: ResourceDevice, EventType: EventDeleted}))
}
