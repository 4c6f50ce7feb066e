package ws

import (
	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
	"github.com/saturnino-fabrica-de-software/facegate/internal/events"
	"github.com/saturnino-fabrica-de-software/facegate/internal/service"
)

// Sink bridges the decision engine's notifications onto the hub.
type Sink struct {
	hub *Hub
}

func NewSink(hub *Hub) *Sink {
	return &Sink{hub: hub}
}

func (s *Sink) Decision(decision domain.AccessDecision) {
	s.hub.Broadcast(EventDecision, decision)
}

func (s *Sink) RegistrationFeedback(message string) {
	s.hub.Broadcast(EventRegistrationFeedback, map[string]any{"message": message})
}

func (s *Sink) RegistrationStatus(status string, payload map[string]any) {
	data := map[string]any{"status": status}
	for k, v := range payload {
		data[k] = v
	}
	s.hub.Broadcast(EventRegistrationStatus, data)

	if status == service.StatusSuccess {
		s.hub.Broadcast(EventIdentityEnrolled, payload)
	}
}

var _ events.Sink = (*Sink)(nil)
