package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubmanagement/internal/domain"
)

type certificateService struct {
	certRepo domain.CertificateRepository
	email    domain.EmailService
	logger   *slog.Logger
}

// NewCertificateService creates a CertificateService backed by the given
// repository and email service.
func NewCertificateService(
	certRepo domain.CertificateRepository,
	email domain.EmailService,
	logger *slog.Logger,
) domain.CertificateService {
	return &certificateService{
		certRepo: certRepo,
		email:    email,
		logger:   logger,
	}
}

func (s *certificateService) IssueIfAbsent(ctx context.Context, event *domain.Event, student *domain.User, clubName string) (bool, error) {
	cert, err := s.certRepo.GetByEventAndStudent(ctx, event.ID, student.ID)
	if err == nil {
		// Already issued; retry delivery if it never went out.
		if !cert.EmailSent {
			s.deliver(ctx, cert, event, student, clubName)
		}
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get certificate: %w", err)
	}

	cert = &domain.Certificate{
		Code:      domain.CertificateCode(event.ID, student.ID),
		EventID:   event.ID,
		StudentID: student.ID,
		IssuedAt:  time.Now(),
		EmailSent: false,
	}
	if err := s.certRepo.Create(ctx, cert); err != nil {
		if errors.Is(err, domain.ErrCertificateExists) {
			// Lost a race to a concurrent issuance; the unique constraint
			// guarantees a single certificate. Pick up the winner's record
			// and retry delivery if needed.
			existing, gerr := s.certRepo.GetByEventAndStudent(ctx, event.ID, student.ID)
			if gerr != nil {
				return false, fmt.Errorf("get certificate after duplicate create: %w", gerr)
			}
			if !existing.EmailSent {
				s.deliver(ctx, existing, event, student, clubName)
			}
			return false, nil
		}
		return false, fmt.Errorf("create certificate: %w", err)
	}

	s.deliver(ctx, cert, event, student, clubName)
	return true, nil
}

// deliver attempts the certificate email and records a confirmed send.
// Delivery failures are logged and never returned; certificate persistence
// stands regardless of email outcome.
func (s *certificateService) deliver(ctx context.Context, cert *domain.Certificate, event *domain.Event, student *domain.User, clubName string) {
	if student.Email == "" {
		s.logger.WarnContext(ctx, "certificate email skipped: student has no email address",
			"certificate_id", cert.ID, "student_id", student.ID)
		return
	}
	data := &domain.CertificateEmailData{
		Email:           student.Email,
		StudentName:     student.Name,
		EventTitle:      event.Title,
		EventDate:       event.Date.Format("January 2, 2006"),
		ClubName:        clubName,
		CertificateCode: cert.Code,
	}
	if err := s.email.SendCertificateIssued(ctx, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to send certificate email",
			"certificate_id", cert.ID, "student_id", student.ID, "err", err)
		return
	}
	if err := s.certRepo.SetEmailSent(ctx, cert.ID, true); err != nil {
		s.logger.ErrorContext(ctx, "failed to record certificate email as sent",
			"certificate_id", cert.ID, "err", err)
		return
	}
	cert.EmailSent = true
}

func (s *certificateService) ListMyCertificates(ctx context.Context, studentID string) ([]*domain.StudentCertificate, error) {
	certs, err := s.certRepo.ListByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	if certs == nil {
		certs = []*domain.StudentCertificate{}
	}
	return certs, nil
}
