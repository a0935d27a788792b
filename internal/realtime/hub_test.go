package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestSSEHubReconnectAndOrdering(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	channel := uuid.New().String()

	clientA := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientA, channel)

	first := SSEMessage{Channel: channel, Event: SSEEventSubmissionCreated, Data: map[string]any{"seq": 1}}
	second := SSEMessage{Channel: channel, Event: SSEEventSubmissionGraded, Data: map[string]any{"seq": 2}}
	hub.Broadcast(first)
	hub.Broadcast(second)

	gotFirst := recvMessage(t, clientA.Outbound, time.Second)
	gotSecond := recvMessage(t, clientA.Outbound, time.Second)
	if gotFirst.Event != SSEEventSubmissionCreated {
		t.Fatalf("first event: want=%s got=%s", SSEEventSubmissionCreated, gotFirst.Event)
	}
	if gotSecond.Event != SSEEventSubmissionGraded {
		t.Fatalf("second event: want=%s got=%s", SSEEventSubmissionGraded, gotSecond.Event)
	}

	hub.CloseClient(clientA)
	select {
	case _, ok := <-clientA.Outbound:
		if ok {
			t.Fatalf("clientA outbound should be closed after disconnect")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for clientA channel close")
	}

	clientB := hub.NewSSEClient(uuid.New())
	hub.AddChannel(clientB, channel)
	reconnect := SSEMessage{Channel: channel, Event: SSEEventActivityCreated, Data: map[string]any{"seq": 3}}
	hub.Broadcast(reconnect)
	gotReconnect := recvMessage(t, clientB.Outbound, time.Second)
	if gotReconnect.Event != SSEEventActivityCreated {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventActivityCreated, gotReconnect.Event)
	}
}

func TestSSEHubChannelIsolation(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))

	subClient := hub.NewSSEClient(uuid.New())
	hub.AddChannel(subClient, ChannelSubmissions)
	actClient := hub.NewSSEClient(uuid.New())
	hub.AddChannel(actClient, ChannelActivities)

	hub.Broadcast(SSEMessage{Channel: ChannelSubmissions, Event: SSEEventSubmissionCreated})

	got := recvMessage(t, subClient.Outbound, time.Second)
	if got.Event != SSEEventSubmissionCreated {
		t.Fatalf("submission subscriber: want=%s got=%s", SSEEventSubmissionCreated, got.Event)
	}
	select {
	case msg := <-actClient.Outbound:
		t.Fatalf("activity subscriber should not receive submission events, got=%s", msg.Event)
	case <-time.After(100 * time.Millisecond):
	}
}
