package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"clubmanagement/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestAttendanceDraftRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	updatedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		draft   *domain.AttendanceDraft
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "success",
			draft: &domain.AttendanceDraft{
				EventID:       "ev-1",
				CoordinatorID: "coord-1",
				Marks: []domain.AttendanceMark{
					{StudentID: "stu-1", Present: true},
					{StudentID: "stu-2", Present: false},
				},
				UpdatedAt: updatedAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				raw := []byte(`[{"student_id":"stu-1","present":true},{"student_id":"stu-2","present":false}]`)
				mock.ExpectExec(`INSERT INTO attendance_drafts`).
					WithArgs("ev-1", "coord-1", raw, updatedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "nil marks stored as empty array",
			draft: &domain.AttendanceDraft{
				EventID:       "ev-1",
				CoordinatorID: "coord-1",
				Marks:         nil,
				UpdatedAt:     updatedAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO attendance_drafts`).
					WithArgs("ev-1", "coord-1", []byte(`[]`), updatedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "db error",
			draft: &domain.AttendanceDraft{
				EventID:       "ev-1",
				CoordinatorID: "coord-1",
				UpdatedAt:     updatedAt,
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO attendance_drafts`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAttendanceDraftRepository(db)
			err = repo.Upsert(ctx, tt.draft)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceDraftRepository_Get(t *testing.T) {
	ctx := context.Background()
	updatedAt := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	cols := []string{"event_id", "coordinator_id", "marks", "updated_at"}

	tests := []struct {
		name      string
		mock      func(mock sqlmock.Sqlmock)
		wantMarks []domain.AttendanceMark
		wantErr   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				raw := []byte(`[{"student_id":"stu-1","present":true}]`)
				rows := sqlmock.NewRows(cols).AddRow("ev-1", "coord-1", raw, updatedAt)
				mock.ExpectQuery(`SELECT event_id, coordinator_id, marks, updated_at`).
					WithArgs("ev-1", "coord-1").
					WillReturnRows(rows)
			},
			wantMarks: []domain.AttendanceMark{{StudentID: "stu-1", Present: true}},
		},
		{
			name: "no draft",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT event_id, coordinator_id, marks, updated_at`).
					WithArgs("ev-1", "coord-1").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAttendanceDraftRepository(db)
			draft, err := repo.Get(ctx, "ev-1", "coord-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "ev-1", draft.EventID)
			require.Equal(t, tt.wantMarks, draft.Marks)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttendanceDraftRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM attendance_drafts`).
					WithArgs("ev-1", "coord-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "no draft is not an error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM attendance_drafts`).
					WithArgs("ev-1", "coord-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM attendance_drafts`).
					WithArgs("ev-1", "coord-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewAttendanceDraftRepository(db)
			err = repo.Delete(ctx, "ev-1", "coord-1")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
