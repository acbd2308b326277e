package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubmanagement/internal/domain"
)

type registrationService struct {
	eventRepo domain.EventRepository
	regRepo   domain.RegistrationRepository
	userRepo  domain.UserRepository
}

// NewRegistrationService creates a RegistrationService with the given repositories.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	regRepo domain.RegistrationRepository,
	userRepo domain.UserRepository,
) domain.RegistrationService {
	return &registrationService{
		eventRepo: eventRepo,
		regRepo:   regRepo,
		userRepo:  userRepo,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID string, requester domain.Requester) error {
	if !requester.IsStudent() {
		return domain.ErrForbidden
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	// Registrations are frozen once attendance is finalized.
	if event.AttendanceCompleted {
		return domain.ErrAlreadyFinalized
	}

	if event.RegistrationDeadline != nil && time.Now().After(*event.RegistrationDeadline) {
		return domain.ErrDeadlinePassed
	}

	if _, err := s.regRepo.GetByEventAndStudent(ctx, eventID, requester.ID); err == nil {
		return domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get registration: %w", err)
	}

	reg := domain.NewRegistration(eventID, requester.ID, time.Now())
	if err := s.regRepo.Create(ctx, reg); err != nil {
		// The unique constraint closes the race between two concurrent
		// registration attempts by the same student.
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (s *registrationService) IsRegistered(ctx context.Context, eventID, studentID string) (bool, error) {
	if _, err := s.regRepo.GetByEventAndStudent(ctx, eventID, studentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get registration: %w", err)
	}
	return true, nil
}

func (s *registrationService) ListRegistrants(ctx context.Context, eventID string, requester domain.Requester) ([]*domain.User, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if !canViewRegistrants(event, requester) {
		return nil, domain.ErrForbidden
	}

	regs, err := s.regRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if len(regs) == 0 {
		return []*domain.User{}, nil
	}

	ids := make([]string, 0, len(regs))
	for _, reg := range regs {
		ids = append(ids, reg.StudentID)
	}
	users, err := s.userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list registrants: %w", err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return users, nil
}

// canViewRegistrants allows admins, the owning coordinator, and coordinators
// of the event's club.
func canViewRegistrants(event *domain.Event, requester domain.Requester) bool {
	if requester.IsAdmin() {
		return true
	}
	if !requester.IsCoordinator() {
		return false
	}
	if event.CoordinatorID == requester.ID {
		return true
	}
	return requester.ClubID != "" && requester.ClubID == event.ClubID
}
