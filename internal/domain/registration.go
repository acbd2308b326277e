package domain

import (
	"context"
	"time"
)

// Registration records that a student signed up for an event. Attended starts
// false and is mutated only by MarkOne or finalization; registrations are
// never deleted.
// swagger:model Registration
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	StudentID string    `json:"student_id"`
	Attended  bool      `json:"attended"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRegistration returns a new Registration with attended=false. ID is set
// by the repository on create.
func NewRegistration(eventID, studentID string, createdAt time.Time) *Registration {
	return &Registration{
		EventID:   eventID,
		StudentID: studentID,
		Attended:  false,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// RegistrationRepository defines storage operations for event registrations.
// Create returns ErrAlreadyRegistered when a registration for the same
// (event, student) pair already exists. SetAttended returns ErrNotFound when
// no such registration exists.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Registration, error)
	SetAttended(ctx context.Context, eventID, studentID string, attended bool, updatedAt time.Time) error
}

// RegistrationService defines the registration ledger operations.
type RegistrationService interface {
	// Register signs the requester up for the event. Requires the student
	// role, an open registration window, and no prior registration.
	Register(ctx context.Context, eventID string, requester Requester) error
	// IsRegistered reports whether the student has a registration for the event.
	IsRegistered(ctx context.Context, eventID, studentID string) (bool, error)
	// ListRegistrants returns the public profiles of all registered students.
	// Allowed for admins, the owning coordinator, and coordinators of the
	// event's club.
	ListRegistrants(ctx context.Context, eventID string, requester Requester) ([]*User, error)
}
