package services

import (
	"crypto/tls"
	"fmt"

	"github.com/DavidAcosta7/local-commerce-platform/internal/config"
	"github.com/DavidAcosta7/local-commerce-platform/internal/utils"
	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
}

func NewEmailService(config *config.Config) *EmailService {
	return &EmailService{config: config}
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	if !utils.IsValidEmail(to) {
		return validationError("invalid recipient address %q", to)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: true}

	return d.DialAndSend(m)
}

// SendPasswordChangedNotice tells a user an administrator reset their password.
func (s *EmailService) SendPasswordChangedNotice(email string) error {
	subject := "Your password was changed"
	body := fmt.Sprintf(`
		<h2>Password Changed</h2>
		<p>Hello,</p>
		<p>An administrator has changed the password for the account associated with <strong>%s</strong>.</p>
		<p>If you did not expect this change, please contact support immediately.</p>
		<p>Best regards,<br>The Community Team</p>
	`, email)

	return s.SendEmail(email, subject, body)
}
