package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubmanagement/internal/domain"
)

type attendanceService struct {
	eventRepo domain.EventRepository
	regRepo   domain.RegistrationRepository
	draftRepo domain.AttendanceDraftRepository
	clubRepo  domain.ClubRepository
	userRepo  domain.UserRepository
	issuer    domain.CertificateIssuer
	logger    *slog.Logger
}

// NewAttendanceService creates an AttendanceService. The issuer is invoked
// synchronously during Submit for every present registrant.
func NewAttendanceService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	draftRepo domain.AttendanceDraftRepository,
	clubRepo domain.ClubRepository,
	userRepo domain.UserRepository,
	issuer domain.CertificateIssuer,
	logger *slog.Logger,
) domain.AttendanceService {
	return &attendanceService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
		draftRepo: draftRepo,
		clubRepo:  clubRepo,
		userRepo:  userRepo,
		issuer:    issuer,
		logger:    logger,
	}
}

// canTakeAttendance allows admins and coordinators.
func canTakeAttendance(requester domain.Requester) bool {
	return requester.IsAdmin() || requester.IsCoordinator()
}

// validateMarks rejects marks with a missing student id. Well-formedness
// only; marks for unregistered students are tolerated and ignored later.
func validateMarks(marks []domain.AttendanceMark) error {
	for _, m := range marks {
		if m.StudentID == "" {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func (s *attendanceService) Roster(ctx context.Context, eventID string, requester domain.Requester) (*domain.EventRoster, error) {
	if !canTakeAttendance(requester) {
		return nil, domain.ErrForbidden
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	regs, err := s.regRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	entries := make([]*domain.RosterEntry, 0, len(regs))
	if len(regs) > 0 {
		ids := make([]string, 0, len(regs))
		attended := make(map[string]bool, len(regs))
		for _, reg := range regs {
			ids = append(ids, reg.StudentID)
			attended[reg.StudentID] = reg.Attended
		}
		users, err := s.userRepo.ListByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("list registrants: %w", err)
		}
		for _, u := range users {
			entries = append(entries, &domain.RosterEntry{
				StudentID:  u.ID,
				Name:       u.Name,
				Email:      u.Email,
				Department: u.Department,
				Present:    attended[u.ID],
			})
		}
	}

	// Overlay the requester's own saved draft, if any. Draft marks for
	// students no longer on the roster are simply not shown.
	if draft, err := s.draftRepo.Get(ctx, eventID, requester.ID); err == nil {
		saved := make(map[string]bool, len(draft.Marks))
		for _, m := range draft.Marks {
			saved[m.StudentID] = m.Present
		}
		for _, e := range entries {
			if present, ok := saved[e.StudentID]; ok {
				e.Present = present
			}
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get attendance draft: %w", err)
	}

	return &domain.EventRoster{
		EventID:    event.ID,
		EventTitle: event.Title,
		Attendees:  entries,
	}, nil
}

func (s *attendanceService) MarkOne(ctx context.Context, eventID, studentID string, present bool, requester domain.Requester) error {
	if !canTakeAttendance(requester) {
		return domain.ErrForbidden
	}
	if studentID == "" {
		return domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.AttendanceCompleted {
		return domain.ErrAlreadyFinalized
	}

	if err := s.regRepo.SetAttended(ctx, eventID, studentID, present, time.Now()); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set attended: %w", err)
	}
	return nil
}

func (s *attendanceService) SaveProgress(ctx context.Context, eventID string, requester domain.Requester, marks []domain.AttendanceMark) error {
	if !canTakeAttendance(requester) {
		return domain.ErrForbidden
	}
	if err := validateMarks(marks); err != nil {
		return err
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	if marks == nil {
		marks = []domain.AttendanceMark{}
	}
	draft := &domain.AttendanceDraft{
		EventID:       eventID,
		CoordinatorID: requester.ID,
		Marks:         marks,
		UpdatedAt:     time.Now(),
	}
	if err := s.draftRepo.Upsert(ctx, draft); err != nil {
		return fmt.Errorf("save attendance draft: %w", err)
	}
	return nil
}

func (s *attendanceService) LoadProgress(ctx context.Context, eventID string, requester domain.Requester) ([]domain.AttendanceMark, error) {
	if !canTakeAttendance(requester) {
		return nil, domain.ErrForbidden
	}

	draft, err := s.draftRepo.Get(ctx, eventID, requester.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.AttendanceMark{}, nil
		}
		return nil, fmt.Errorf("get attendance draft: %w", err)
	}
	if draft.Marks == nil {
		return []domain.AttendanceMark{}, nil
	}
	return draft.Marks, nil
}

func (s *attendanceService) Submit(ctx context.Context, eventID string, requester domain.Requester, marks []domain.AttendanceMark) (*domain.SubmitResult, error) {
	if !canTakeAttendance(requester) {
		return nil, domain.ErrForbidden
	}
	if err := validateMarks(marks); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.AttendanceCompleted {
		return nil, domain.ErrAlreadyFinalized
	}

	regs, err := s.regRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	registered := make(map[string]bool, len(regs))
	for _, reg := range regs {
		registered[reg.StudentID] = true
	}

	// Drop marks for students with no registration on this event; drafts may
	// reference stale data and that is tolerated, not errored.
	applied := make([]domain.AttendanceMark, 0, len(marks))
	for _, m := range marks {
		if registered[m.StudentID] {
			applied = append(applied, m)
		}
	}

	// Single atomic transition: the conditional update inside
	// FinalizeAttendance decides the finalization winner, so a concurrent
	// submit observes ErrAlreadyFinalized rather than a partial state.
	now := time.Now()
	if err := s.eventRepo.FinalizeAttendance(ctx, eventID, applied, now); err != nil {
		if errors.Is(err, domain.ErrAlreadyFinalized) {
			return nil, domain.ErrAlreadyFinalized
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("finalize attendance: %w", err)
	}

	result := &domain.SubmitResult{}
	clubName := s.clubName(ctx, event)
	for _, m := range applied {
		if !m.Present {
			continue
		}
		student, err := s.userRepo.GetByID(ctx, m.StudentID)
		if err != nil {
			// The event is already completed; individual certificate failures
			// are reported in the aggregate result, never propagated.
			s.logger.ErrorContext(ctx, "certificate issuance skipped: student lookup failed",
				"event_id", eventID, "student_id", m.StudentID, "err", err)
			result.CertificateFailures++
			continue
		}
		created, err := s.issuer.IssueIfAbsent(ctx, event, student, clubName)
		if err != nil {
			s.logger.ErrorContext(ctx, "certificate issuance failed",
				"event_id", eventID, "student_id", m.StudentID, "err", err)
			result.CertificateFailures++
			continue
		}
		if created {
			result.CertificatesGenerated++
		}
	}

	if err := s.draftRepo.Delete(ctx, eventID, requester.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to discard attendance draft",
			"event_id", eventID, "coordinator_id", requester.ID, "err", err)
	}

	return result, nil
}

func (s *attendanceService) clubName(ctx context.Context, event *domain.Event) string {
	if event.ClubID == "" {
		return ""
	}
	club, err := s.clubRepo.GetByID(ctx, event.ClubID)
	if err != nil {
		s.logger.WarnContext(ctx, "club lookup failed", "club_id", event.ClubID, "err", err)
		return ""
	}
	return club.Name
}
