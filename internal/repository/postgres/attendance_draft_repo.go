package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"clubmanagement/internal/domain"
)

type attendanceDraftRepository struct {
	DB *sql.DB
}

func NewAttendanceDraftRepository(db *sql.DB) domain.AttendanceDraftRepository {
	return &attendanceDraftRepository{
		DB: db,
	}
}

// Upsert replaces the draft for the (event, coordinator) pair. Marks are
// stored as a JSONB document; the primary key keeps drafts unique per pair.
func (r *attendanceDraftRepository) Upsert(ctx context.Context, draft *domain.AttendanceDraft) error {
	marks := draft.Marks
	if marks == nil {
		marks = []domain.AttendanceMark{}
	}
	raw, err := json.Marshal(marks)
	if err != nil {
		return fmt.Errorf("marshal draft marks: %w", err)
	}
	query := `
		INSERT INTO attendance_drafts (event_id, coordinator_id, marks, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, coordinator_id)
		DO UPDATE SET marks = EXCLUDED.marks, updated_at = EXCLUDED.updated_at
	`
	_, err = r.DB.ExecContext(ctx, query, draft.EventID, draft.CoordinatorID, raw, draft.UpdatedAt)
	return err
}

func (r *attendanceDraftRepository) Get(ctx context.Context, eventID, coordinatorID string) (*domain.AttendanceDraft, error) {
	query := `
		SELECT event_id, coordinator_id, marks, updated_at
		FROM attendance_drafts
		WHERE event_id = $1 AND coordinator_id = $2
	`
	draft := &domain.AttendanceDraft{}
	var raw []byte
	err := r.DB.QueryRowContext(ctx, query, eventID, coordinatorID).
		Scan(&draft.EventID, &draft.CoordinatorID, &raw, &draft.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &draft.Marks); err != nil {
		return nil, fmt.Errorf("unmarshal draft marks: %w", err)
	}
	return draft, nil
}

// Delete removes the draft. Deleting a nonexistent draft is not an error.
func (r *attendanceDraftRepository) Delete(ctx context.Context, eventID, coordinatorID string) error {
	query := `DELETE FROM attendance_drafts WHERE event_id = $1 AND coordinator_id = $2`
	_, err := r.DB.ExecContext(ctx, query, eventID, coordinatorID)
	return err
}
