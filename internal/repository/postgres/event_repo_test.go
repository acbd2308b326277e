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

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cols := []string{
		"id", "title", "description", "venue", "club_id", "coordinator_id", "date",
		"registration_deadline", "attendance_completed", "attendance_submitted_at",
		"created_at", "updated_at",
	}

	tests := []struct {
		name         string
		id           string
		mock         func(mock sqlmock.Sqlmock)
		wantDeadline bool
		wantErr      error
	}{
		{
			name: "success with deadline",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(cols).
					AddRow("ev-1", "Hack Night", "desc", "Lab 3", "club-1", "coord-1", date,
						deadline, false, nil, createdAt, createdAt)
				mock.ExpectQuery(`SELECT id, title, description, venue, club_id, coordinator_id, date`).
					WithArgs("ev-1").
					WillReturnRows(rows)
			},
			wantDeadline: true,
		},
		{
			name: "success without deadline",
			id:   "ev-2",
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(cols).
					AddRow("ev-2", "Open Mic", "", "Auditorium", "club-1", "coord-1", date,
						nil, true, date, createdAt, createdAt)
				mock.ExpectQuery(`SELECT id, title, description, venue, club_id, coordinator_id, date`).
					WithArgs("ev-2").
					WillReturnRows(rows)
			},
			wantDeadline: false,
		},
		{
			name: "not found",
			id:   "missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, venue, club_id, coordinator_id, date`).
					WithArgs("missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, title, description, venue, club_id, coordinator_id, date`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			event, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.id, event.ID)
			if tt.wantDeadline {
				require.NotNil(t, event.RegistrationDeadline)
				require.Equal(t, deadline, *event.RegistrationDeadline)
			} else {
				require.Nil(t, event.RegistrationDeadline)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_FinalizeAttendance(t *testing.T) {
	ctx := context.Background()
	submittedAt := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	marks := []domain.AttendanceMark{
		{StudentID: "stu-1", Present: true},
		{StudentID: "stu-2", Present: false},
	}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-1", submittedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE event_registrations`).
					WithArgs("ev-1", "stu-1", true, submittedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE event_registrations`).
					WithArgs("ev-1", "stu-2", false, submittedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "unregistered mark affects zero rows",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-1", submittedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE event_registrations`).
					WithArgs("ev-1", "stu-1", true, submittedAt).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(`UPDATE event_registrations`).
					WithArgs("ev-1", "stu-2", false, submittedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "already finalized",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-1", submittedAt).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrAlreadyFinalized,
		},
		{
			name: "event not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-1", submittedAt).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("ev-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
				mock.ExpectRollback()
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error rolls back",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE events`).
					WithArgs("ev-1", submittedAt).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`UPDATE event_registrations`).
					WithArgs("ev-1", "stu-1", true, submittedAt).
					WillReturnError(sql.ErrConnDone)
				mock.ExpectRollback()
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.FinalizeAttendance(ctx, "ev-1", marks, submittedAt)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
