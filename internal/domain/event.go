package domain

import (
	"context"
	"time"
)

// Event represents a club event. Only the attendance-related fields are ever
// patched by this workflow; everything else is reference data owned by the
// event CRUD collaborator.
// swagger:model Event
type Event struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	Venue                 string     `json:"venue"`
	ClubID                string     `json:"club_id"`
	CoordinatorID         string     `json:"coordinator_id"`
	Date                  time.Time  `json:"date"`
	RegistrationDeadline  *time.Time `json:"registration_deadline,omitempty"`
	AttendanceCompleted   bool       `json:"attendance_completed"`
	AttendanceSubmittedAt *time.Time `json:"attendance_submitted_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// EventRepository defines the storage operations this workflow needs on
// events. FinalizeAttendance is the single state transition authority: it
// applies the given marks to the event's registrations and flips
// attendance_completed from false to true as one atomic unit. It returns
// ErrNotFound if the event does not exist and ErrAlreadyFinalized if the
// event was already completed; in both cases nothing is mutated. Marks for
// students with no registration on the event are ignored.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	FinalizeAttendance(ctx context.Context, eventID string, marks []AttendanceMark, submittedAt time.Time) error
}
