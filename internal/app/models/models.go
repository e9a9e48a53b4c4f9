package models

// RoleType defines the user role type
type RoleType string

const (
	RoleNormal    RoleType = "NORMAL"
	RoleOrganiser RoleType = "ORGANISER"
	RoleAdmin     RoleType = "ADMIN"
)

// EventStatus defines the lifecycle state of an event.
// Transitions are monotonic: UPCOMING -> {ONGOING, CANCELLED},
// ONGOING -> COMPLETED. COMPLETED and CANCELLED are terminal.
type EventStatus string

const (
	EventUpcoming  EventStatus = "UPCOMING"
	EventOngoing   EventStatus = "ONGOING"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s EventStatus) CanTransitionTo(next EventStatus) bool {
	switch s {
	case EventUpcoming:
		return next == EventOngoing || next == EventCancelled
	case EventOngoing:
		return next == EventCompleted
	default:
		return false
	}
}

// IsTerminal reports whether the status admits no further transitions.
func (s EventStatus) IsTerminal() bool {
	return s == EventCompleted || s == EventCancelled
}
