package logics

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"neuroscan-server/configs"
)

// EmailService delivers outbound mail over SMTP.
type EmailService struct {
	dialer *gomail.Dialer
	sender string
	logger *zap.Logger
}

func NewEmailService(cfg configs.EmailConfig, logger *zap.Logger) *EmailService {
	return &EmailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		sender: cfg.SenderEmail,
		logger: logger,
	}
}

// SendVerificationCode mails the 6-digit account verification code.
func (s *EmailService) SendVerificationCode(to, code string) error {
	subject := "Verify your account"
	body := fmt.Sprintf("Your verification code is: %s", code)
	return s.send(to, subject, body)
}

func (s *EmailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Failed to send email", zap.String("to", to), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
