package services

import (
	"fmt"
	"net/smtp"

	"github.com/dotlib/dotlib-api/internal/config"
)

type EmailService struct {
	cfg config.SMTPConfig
}

func NewEmailService(cfg config.SMTPConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Username != "" && s.cfg.Password != "" && s.cfg.From != ""
}

func (s *EmailService) Send(to, subject, body string) error {
	if !s.IsConfigured() {
		return nil
	}

	addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.cfg.From, to, subject, body)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}

func (s *EmailService) SendTeamInvite(to, teamName, inviterName, inviteURL string) error {
	subject := fmt.Sprintf("%s invited you to join %s", inviterName, teamName)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>Team invitation</h2>
			<p><strong>%s</strong> wants you on the team <strong>%s</strong>.</p>
			<p><a href="%s">Accept or decline the invitation</a></p>
			<p>If you don't have an account yet, sign up first and pick a username.</p>
		</body>
		</html>
	`, inviterName, teamName, inviteURL)

	return s.Send(to, subject, body)
}
