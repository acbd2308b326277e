package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCertificateExists is returned by CertificateRepository.Create when a
// certificate for the same (event, student) pair already exists.
var ErrCertificateExists = errors.New("certificate already issued")

// Certificate records that a student was present at an event. At most one
// exists per (event, student) pair, ever. EmailSent transitions false→true
// only after a confirmed delivery and may be retried without creating a
// second certificate.
// swagger:model Certificate
type Certificate struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	EventID   string    `json:"event_id"`
	StudentID string    `json:"student_id"`
	IssuedAt  time.Time `json:"issued_at"`
	EmailSent bool      `json:"email_sent"`
}

// StudentCertificate is a certificate joined with its event's title for
// student-facing listings.
// swagger:model StudentCertificate
type StudentCertificate struct {
	Certificate
	EventTitle string `json:"event_title"`
}

// CertificateCode returns the deterministic human-readable certificate code
// for an (event, student) pair: CERT-<event prefix>-<student prefix>, where
// each prefix is the first 8 hex characters of the UUID, uppercased. The same
// pair always yields the same code.
func CertificateCode(eventID, studentID string) string {
	return fmt.Sprintf("CERT-%s-%s", codePrefix(eventID), codePrefix(studentID))
}

func codePrefix(id string) string {
	s := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(s) > 8 {
		s = s[:8]
	}
	return s
}

// CertificateRepository defines storage operations for certificates.
// Create returns ErrCertificateExists on a duplicate (event, student) pair;
// the unique constraint is the last line of defense against double issuance.
type CertificateRepository interface {
	Create(ctx context.Context, cert *Certificate) error
	GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*Certificate, error)
	SetEmailSent(ctx context.Context, id string, sent bool) error
	ListByStudentID(ctx context.Context, studentID string) ([]*StudentCertificate, error)
}

// CertificateIssuer issues at most one certificate per (event, student) pair
// and attempts best-effort email delivery.
type CertificateIssuer interface {
	// IssueIfAbsent persists a certificate for the student if none exists yet
	// and attempts email delivery. Returns created=true only when a new
	// certificate was persisted. Email failures are logged, reflected in
	// email_sent=false, and never returned as errors.
	IssueIfAbsent(ctx context.Context, event *Event, student *User, clubName string) (created bool, err error)
}

// CertificateService extends the issuer with student-facing reads.
type CertificateService interface {
	CertificateIssuer
	ListMyCertificates(ctx context.Context, studentID string) ([]*StudentCertificate, error)
}
