package services

import (
	"context"

	"github.com/classbridge/classbridge-backend/internal/pkg/logger"
	"github.com/classbridge/classbridge-backend/internal/realtime"
	"github.com/classbridge/classbridge-backend/internal/realtime/bus"
)

// ChangeNotifier fans table-scoped change events out to connected clients.
// With a bus configured the event goes through redis so every instance
// rebroadcasts it; without one it goes straight to the local hub.
type ChangeNotifier interface {
	Notify(ctx context.Context, msg realtime.SSEMessage)
}

type changeNotifier struct {
	log *logger.Logger
	hub *realtime.SSEHub
	bus bus.Bus
}

func NewChangeNotifier(log *logger.Logger, hub *realtime.SSEHub, b bus.Bus) ChangeNotifier {
	return &changeNotifier{
		log: log.With("service", "ChangeNotifier"),
		hub: hub,
		bus: b,
	}
}

func (cn *changeNotifier) Notify(ctx context.Context, msg realtime.SSEMessage) {
	if msg.Channel == "" {
		return
	}
	if cn.bus != nil {
		if err := cn.bus.Publish(ctx, msg); err != nil {
			cn.log.Warn("bus publish failed, broadcasting locally", "channel", msg.Channel, "error", err)
			cn.hub.Broadcast(msg)
		}
		return
	}
	cn.hub.Broadcast(msg)
}
