package ports

import (
	"MasarWeb/internal/core/domain"
	"context"
)

// Topics published on the in-process bus.
const (
	TopicRegistrationCompleted = "registration.completed"
	TopicSessionExpired        = "session.expired"
	TopicAcceptanceRequested   = "acceptance.requested"
)

// Event is a generic wrapper for any event payload
type Event struct {
	Topic string
	Data  interface{}
}

// EventHandler is a function that can handle a specific event
type EventHandler func(ctx context.Context, event Event) error

// EventBus defines the interface for our in-process pub/sub system
type EventBus interface {
	// Publish sends an event to all subscribers of a topic
	Publish(ctx context.Context, topic string, data interface{}) error

	// Subscribe registers a handler for a specific topic
	Subscribe(topic string, handler EventHandler)
}

// RegistrationCompleted is the payload of TopicRegistrationCompleted.
type RegistrationCompleted struct {
	UserType domain.UserType
	UserID   string
	Name     string
	Contact  string
}

// SessionExpired is the payload of TopicSessionExpired.
type SessionExpired struct {
	Role domain.Role
	Path string
}

// AcceptanceRequested is the payload of TopicAcceptanceRequested.
type AcceptanceRequested struct {
	AcceptanceID string
	TeacherID    string
	SchoolUserID string
	SchoolName   string
}
