package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// CertificateEmailData holds data for the certificate issuance email.
type CertificateEmailData struct {
	Email           string
	StudentName     string
	EventTitle      string
	EventDate       string
	ClubName        string
	CertificateCode string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendCertificateIssued(ctx context.Context, data *CertificateEmailData) error
}
