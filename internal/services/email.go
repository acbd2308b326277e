package services

import (
	"context"
	"fmt"

	"clubmanagement/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendCertificateIssued sends the certificate email using the "certificate"
// template and the given data.
func (s *emailService) SendCertificateIssued(ctx context.Context, data *domain.CertificateEmailData) error {
	if data == nil {
		return fmt.Errorf("certificate email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("certificate", data)
	if err != nil {
		return fmt.Errorf("failed to render certificate template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send certificate email: %w", err)
	}
	return nil
}
