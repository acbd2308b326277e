package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clubmanagement/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, description, venue, club_id, coordinator_id, date,
		       registration_deadline, attendance_completed, attendance_submitted_at,
		       created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var deadlineNull, submittedNull sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Description, &e.Venue, &e.ClubID, &e.CoordinatorID, &e.Date,
		&deadlineNull, &e.AttendanceCompleted, &submittedNull,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if deadlineNull.Valid {
		e.RegistrationDeadline = &deadlineNull.Time
	}
	if submittedNull.Valid {
		e.AttendanceSubmittedAt = &submittedNull.Time
	}
	return e, nil
}

// FinalizeAttendance flips the event to completed and applies the marks in a
// single transaction. The conditional update on attendance_completed decides
// the finalization winner; a loser gets ErrAlreadyFinalized with no mutation.
func (r *eventRepository) FinalizeAttendance(ctx context.Context, eventID string, marks []domain.AttendanceMark, submittedAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE events
		SET attendance_completed = TRUE, attendance_submitted_at = $2, updated_at = $2
		WHERE id = $1 AND attendance_completed = FALSE
	`, eventID, submittedAt)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrAlreadyFinalized
	}

	for _, m := range marks {
		// Zero rows affected is fine: marks for unregistered students are ignored.
		if _, err := tx.ExecContext(ctx, `
			UPDATE event_registrations
			SET attended = $3, updated_at = $4
			WHERE event_id = $1 AND student_id = $2
		`, eventID, m.StudentID, m.Present, submittedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}
