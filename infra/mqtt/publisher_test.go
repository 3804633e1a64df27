package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/dronecoord/core/coordinator"
	"github.com/kilianp07/dronecoord/core/events"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/ops"
	"github.com/kilianp07/dronecoord/core/roster"
	"github.com/kilianp07/dronecoord/internal/eventbus"
)

func TestPublishDecisionTopicAndQoS(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", TopicPrefix: "fleet", QoS: map[string]byte{"decisions": 1}, Retain: true}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, p.PublishDecision(events.Decision{ID: "d1", Operation: "assign-next", Success: true, MissionID: "PRJ001"}))
	sent := mc.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "fleet/decisions/assign-next", sent[0].topic)
	assert.Equal(t, byte(1), sent[0].qos)
	assert.True(t, sent[0].retain)

	var got events.Decision
	require.NoError(t, json.Unmarshal(sent[0].payload, &got))
	assert.Equal(t, "PRJ001", got.MissionID)
	assert.Empty(t, mc.subscribed, "commands are off by default")

	p.Close()
	assert.True(t, mc.disconnected)
}

func TestPublishRetries(t *testing.T) {
	mc := &mockClient{publishErrs: []error{fmt.Errorf("net fail"), nil}}
	useMock(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", MaxRetries: 1, BackoffMS: 1}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, p.PublishDecision(events.Decision{Operation: "release"}))
	assert.Len(t, mc.sent(), 2)

	mc.publishErrs = []error{fmt.Errorf("a"), fmt.Errorf("b")}
	assert.Error(t, p.PublishDecision(events.Decision{Operation: "release"}))
}

func TestRunForwardsBus(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883"}, nil, nil)
	require.NoError(t, err)

	bus := eventbus.NewTyped[events.Decision]()
	ctx, cancel := context.WithCancel(context.Background())
	done := p.Run(ctx, bus)
	bus.Publish(events.Decision{ID: "x", Operation: "urgent-reassign"})

	require.Eventually(t, func() bool { return len(mc.sent()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "dronecoord/decisions/urgent-reassign", mc.sent()[0].topic)
	cancel()
	<-done
}

func commandExecutor(t *testing.T) *ops.Executor {
	t.Helper()
	start, _ := model.ParseDate("2024-01-01")
	s, err := roster.NewStoreFrom(
		[]model.Pilot{{ID: "P1", Name: "Arjun", Location: "Bangalore", Status: model.PilotAvailable}},
		[]model.Drone{{ID: "D1", Model: "M300", Location: "Bangalore", Status: model.DroneAvailable}},
		[]model.Mission{{ID: "PRJ001", Name: "Client A", Location: "Bangalore", Window: model.NewDateRange(start, start)}},
	)
	require.NoError(t, err)
	return ops.NewExecutor(coordinator.New(s))
}

func TestCommands(t *testing.T) {
	mc := &mockClient{}
	useMock(t, mc)
	p, err := NewPublisher(Config{Broker: "tcp://localhost:1883", Commands: true, QoS: map[string]byte{"commands": 2}}, commandExecutor(t), nil)
	require.NoError(t, err)
	require.Len(t, mc.subscribed, 1)
	assert.Equal(t, "dronecoord/commands", mc.subscribed[0].topic)
	assert.Equal(t, byte(2), mc.subscribed[0].qos)

	handler := mc.handlers["dronecoord/commands"]
	handler(mc, mockMessage{[]byte(`{"request_id":"r1","operation":"assign-next"}`)})
	handler(mc, mockMessage{[]byte(`{"request_id":"r2","operation":"assign-next"}`)})
	handler(mc, mockMessage{[]byte(`not json`)})

	sent := mc.sent()
	require.Len(t, sent, 3)
	var replies []commandReply
	for _, s := range sent {
		assert.Equal(t, "dronecoord/responses", s.topic)
		var r commandReply
		require.NoError(t, json.Unmarshal(s.payload, &r))
		replies = append(replies, r)
	}
	assert.Equal(t, "ok", replies[0].Status)
	require.NotNil(t, replies[0].Response)
	assert.Equal(t, "P1", replies[0].Response.Assignment.PilotID)
	assert.Equal(t, "failed", replies[1].Status)
	assert.Equal(t, "NoUnassignedMission", replies[1].Kind)
	assert.Equal(t, "r2", replies[1].RequestID)
	assert.Equal(t, "ValidationError", replies[2].Kind)

	p.Close()
	assert.True(t, mc.disconnected)
}
