package api

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/matheus3301/weibo/internal/bus"
	"github.com/matheus3301/weibo/internal/rpc"
	"github.com/matheus3301/weibo/internal/status"
)

// EventService implements the EventService gRPC service.
type EventService struct {
	bus         *bus.Bus
	sessionName string
}

// NewEventService creates a new event service.
func NewEventService(b *bus.Bus, sessionName string) *EventService {
	return &EventService{bus: b, sessionName: sessionName}
}

// WatchEvents relays bus events until the client goes away.
func (s *EventService) WatchEvents(req *rpc.WatchEventsRequest, stream rpc.EventService_WatchEventsServer) error {
	ch, unsub := s.bus.SubscribeAny(req.Namespaces, 256)
	defer unsub()

	for {
		select {
		case evt := <-ch:
			payload, err := json.Marshal(eventPayload(evt))
			if err != nil {
				continue
			}
			if err := stream.Send(&rpc.Event{
				ID:           uuid.New().String(),
				Session:      s.sessionName,
				Kind:         evt.Kind,
				OccurredAtMs: evt.Timestamp.UnixMilli(),
				Payload:      payload,
			}); err != nil {
				return err
			}
		case <-stream.Context().Done():
			return nil
		}
	}
}

// eventPayload returns the wire form of a bus payload. Raw timeline pages
// are summarized; clients fetch statuses through TimelineService.
func eventPayload(evt bus.Event) any {
	switch p := evt.Payload.(type) {
	case bus.TimelinePayload:
		return map[string]int{"count": len(p.Statuses)}
	case bus.UnreadPayload:
		return map[string]int{"count": p.Count}
	case bus.PostPayload:
		return map[string]string{"client_id": p.ClientID, "server_id": p.ServerID, "error": p.Error}
	case status.StatusChange:
		return map[string]string{"from": string(p.From), "to": string(p.To)}
	default:
		return p
	}
}
