// Package service implements the business logic of the Tastebook API,
// sitting between the HTTP handlers and the repositories.
package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/tastebook/tastebook/internal/config"
	"github.com/tastebook/tastebook/internal/utils"
)

// EmailSender delivers transactional email. Implementations other than
// SendGrid exist only in tests.
type EmailSender interface {
	SendPasswordResetEmail(toEmail, toName, resetURL string) error
}

// EmailService sends transactional email through SendGrid.
type EmailService struct {
	apiKey      string
	fromAddress string
	fromName    string
}

// NewEmailService creates a new EmailService from configuration.
func NewEmailService(cfg *config.EmailSettings) (*EmailService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid API key is not configured")
	}
	return &EmailService{
		apiKey:      cfg.APIKey,
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
	}, nil
}

// SendPasswordResetEmail sends a password reset email containing the reset
// link. The plaintext reset token only ever leaves the system through this
// message.
func (s *EmailService) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail(toName, toEmail)
	subject := "Password Reset Request"
	plainTextContent := fmt.Sprintf("You requested a password reset. Use the following link within the next few minutes: %s", resetURL)
	htmlContent := fmt.Sprintf("<p>You requested a password reset.</p><p><a href=%q>Reset your password</a></p><p>If you did not request this, you can ignore this email.</p>", resetURL)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Error().Err(err).Str("to", utils.MaskEmail(toEmail)).Msg("Failed to send password reset email")
		return err
	}
	if response.StatusCode >= 400 {
		log.Error().Int("status_code", response.StatusCode).Str("to", utils.MaskEmail(toEmail)).Msg("Password reset email rejected")
		return fmt.Errorf("email provider returned status %d", response.StatusCode)
	}

	log.Info().Int("status_code", response.StatusCode).Str("to", utils.MaskEmail(toEmail)).Msg("Password reset email sent")
	return nil
}
