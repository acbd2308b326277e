package domain

import (
	"context"
	"time"
)

// AttendanceMark is a single (student, present) tuple as submitted by a
// coordinator, either into a draft or to finalization.
// swagger:model AttendanceMark
type AttendanceMark struct {
	StudentID string `json:"student_id"`
	Present   bool   `json:"present"`
}

// AttendanceDraft holds a coordinator's in-progress attendance marks for an
// event. Purely advisory scratch space: drafts never trigger certificates and
// are discarded after successful finalization. One draft exists per
// (event, coordinator) pair.
type AttendanceDraft struct {
	EventID       string           `json:"event_id"`
	CoordinatorID string           `json:"coordinator_id"`
	Marks         []AttendanceMark `json:"marks"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// AttendanceDraftRepository defines storage for attendance drafts. Upsert
// replaces any existing draft for the same (event, coordinator) pair. Get
// returns ErrNotFound when no draft exists. Delete is a no-op when no draft
// exists.
type AttendanceDraftRepository interface {
	Upsert(ctx context.Context, draft *AttendanceDraft) error
	Get(ctx context.Context, eventID, coordinatorID string) (*AttendanceDraft, error)
	Delete(ctx context.Context, eventID, coordinatorID string) error
}

// RosterEntry is one registrant on an event roster with their current
// present status.
// swagger:model RosterEntry
type RosterEntry struct {
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Present    bool   `json:"present"`
}

// EventRoster is the attendee roster for an event as shown to a coordinator:
// committed attended values overlaid with the coordinator's own saved draft.
// swagger:model EventRoster
type EventRoster struct {
	EventID    string         `json:"event_id"`
	EventTitle string         `json:"event_title"`
	Attendees  []*RosterEntry `json:"attendees"`
}

// SubmitResult is the outcome of a successful attendance finalization.
// CertificatesGenerated counts only newly created certificates; certificate
// or email failures are reported in CertificateFailures, never as the
// operation's failure.
// swagger:model SubmitResult
type SubmitResult struct {
	CertificatesGenerated int `json:"certificates_generated"`
	CertificateFailures   int `json:"certificate_failures"`
}

// AttendanceService defines attendance capture and finalization. All
// operations require the coordinator or admin role.
type AttendanceService interface {
	// Roster returns the event's registrants with present status seeded from
	// committed attendance and overlaid with the requester's saved draft.
	Roster(ctx context.Context, eventID string, requester Requester) (*EventRoster, error)
	// MarkOne sets a single registration's attended value prior to
	// finalization. Rejects with ErrAlreadyFinalized on completed events.
	MarkOne(ctx context.Context, eventID, studentID string, present bool, requester Requester) error
	// SaveProgress upserts the requester's draft for the event with the full
	// replacement list of marks.
	SaveProgress(ctx context.Context, eventID string, requester Requester, marks []AttendanceMark) error
	// LoadProgress returns the requester's most recently saved marks, or an
	// empty list if no draft exists.
	LoadProgress(ctx context.Context, eventID string, requester Requester) ([]AttendanceMark, error)
	// Submit finalizes attendance for the event: applies the marks, flips the
	// event to completed exactly once, issues certificates for present
	// students, and discards the requester's draft. A second call fails with
	// ErrAlreadyFinalized and performs no mutation.
	Submit(ctx context.Context, eventID string, requester Requester, marks []AttendanceMark) (*SubmitResult, error)
}
