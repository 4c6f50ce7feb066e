package ws

import (
	"time"
)

type EventType string

const (
	EventDecision             EventType = "face.decision"
	EventRegistrationFeedback EventType = "registration.feedback"
	EventRegistrationStatus   EventType = "registration.status"
	EventIdentityEnrolled     EventType = "identity.enrolled"
	EventIdentityDeleted      EventType = "identity.deleted"
	EventIdentityRenamed      EventType = "identity.renamed"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
