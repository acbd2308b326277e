package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"clubmanagement/internal/domain"
)

type certificateRepository struct {
	DB *sql.DB
}

func NewCertificateRepository(db *sql.DB) domain.CertificateRepository {
	return &certificateRepository{
		DB: db,
	}
}

func (r *certificateRepository) Create(ctx context.Context, cert *domain.Certificate) error {
	query := `
		INSERT INTO certificates (code, event_id, student_id, issued_at, email_sent)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, cert.Code, cert.EventID, cert.StudentID, cert.IssuedAt, cert.EmailSent).
		Scan(&cert.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrCertificateExists
		}
		return err
	}
	return nil
}

func (r *certificateRepository) GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*domain.Certificate, error) {
	query := `
		SELECT id, code, event_id, student_id, issued_at, email_sent
		FROM certificates
		WHERE event_id = $1 AND student_id = $2
	`
	cert := &domain.Certificate{}
	err := r.DB.QueryRowContext(ctx, query, eventID, studentID).
		Scan(&cert.ID, &cert.Code, &cert.EventID, &cert.StudentID, &cert.IssuedAt, &cert.EmailSent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return cert, nil
}

func (r *certificateRepository) SetEmailSent(ctx context.Context, id string, sent bool) error {
	query := `UPDATE certificates SET email_sent = $2 WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, sent)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *certificateRepository) ListByStudentID(ctx context.Context, studentID string) ([]*domain.StudentCertificate, error) {
	query := `
		SELECT c.id, c.code, c.event_id, c.student_id, c.issued_at, c.email_sent, e.title
		FROM certificates c
		JOIN events e ON e.id = c.event_id
		WHERE c.student_id = $1
		ORDER BY c.issued_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var certs []*domain.StudentCertificate
	for rows.Next() {
		cert := &domain.StudentCertificate{}
		if err := rows.Scan(&cert.ID, &cert.Code, &cert.EventID, &cert.StudentID, &cert.IssuedAt, &cert.EmailSent, &cert.EventTitle); err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if certs == nil {
		certs = []*domain.StudentCertificate{}
	}
	return certs, nil
}
