package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/yorumdesk/backend/internal/config"
	"github.com/yorumdesk/backend/pkg/logger"
)

// EmailService sends transactional mails over SMTP. When SMTP is disabled
// every send is a silent no-op; token delivery then falls back to debug
// logging so development setups stay usable.
type EmailService struct {
	config *config.SMTPConfig
}

func NewEmailService(cfg *config.SMTPConfig) *EmailService {
	return &EmailService{config: cfg}
}

func (s *EmailService) Enabled() bool {
	return s.config != nil && s.config.Enabled && s.config.Host != ""
}

// SendVerificationEmail delivers the email verification token. The token
// never appears in any API payload; this is its only delivery channel.
func (s *EmailService) SendVerificationEmail(to, token string) error {
	if !s.Enabled() {
		logger.Debugf("[Email] SMTP disabled, verification token for %s: %s", to, token)
		return nil
	}

	subject := "YorumDesk - E-posta Doğrulama"
	body := s.buildTokenBody(
		"E-posta Adresinizi Doğrulayın",
		"Hesabınızı etkinleştirmek için aşağıdaki doğrulama kodunu kullanın. Kod 24 saat geçerlidir.",
		token,
	)

	return s.send([]string{to}, subject, body)
}

// SendPasswordResetEmail delivers the password reset token.
func (s *EmailService) SendPasswordResetEmail(to, token string) error {
	if !s.Enabled() {
		logger.Debugf("[Email] SMTP disabled, password reset token for %s: %s", to, token)
		return nil
	}

	subject := "YorumDesk - Şifre Sıfırlama"
	body := s.buildTokenBody(
		"Şifre Sıfırlama Talebi",
		"Şifrenizi sıfırlamak için aşağıdaki kodu kullanın. Kod 2 saat geçerlidir. Bu talebi siz yapmadıysanız bu e-postayı yok sayabilirsiniz.",
		token,
	)

	return s.send([]string{to}, subject, body)
}

// SendDigest sends the daily moderation digest to the configured recipients.
func (s *EmailService) SendDigest(recipients []string, subject, body string) error {
	if !s.Enabled() || len(recipients) == 0 {
		return nil
	}
	return s.send(recipients, subject, body)
}

func (s *EmailService) buildTokenBody(title, text, token string) string {
	var sb strings.Builder

	sb.WriteString("<html><body style=\"font-family: Arial, sans-serif;\">")
	sb.WriteString(fmt.Sprintf("<h2>%s</h2>", title))
	sb.WriteString(fmt.Sprintf("<p>%s</p>", text))
	sb.WriteString(fmt.Sprintf("<pre style=\"background: #f5f5f5; padding: 12px; border-radius: 4px; font-size: 16px;\">%s</pre>", token))
	sb.WriteString("<hr><p style=\"color: #888; font-size: 12px;\">YorumDesk</p>")
	sb.WriteString("</body></html>")

	return sb.String()
}

func (s *EmailService) send(to []string, subject, body string) error {
	from := s.config.From
	if from == "" {
		from = s.config.Username
	}

	headers := make(map[string]string)
	headers["From"] = from
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	port := s.config.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, port)

	var auth smtp.Auth
	if s.config.Username != "" && s.config.Password != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}

	var err error
	if s.config.UseTLS {
		err = s.sendTLS(addr, auth, from, to, message.String())
	} else {
		err = smtp.SendMail(addr, auth, from, to, []byte(message.String()))
	}

	if err != nil {
		logger.Infof("[Email] Failed to send email: %v", err)
		return err
	}

	logger.Infof("[Email] Sent mail to %v", to)
	return nil
}

func (s *EmailService) sendTLS(addr string, auth smtp.Auth, from string, to []string, message string) error {
	tlsConfig := &tls.Config{
		ServerName: s.config.Host,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return err
		}
	}

	if err := client.Mail(from); err != nil {
		return err
	}

	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := client.Data()
	if err != nil {
		return err
	}

	if _, err = w.Write([]byte(message)); err != nil {
		return err
	}

	return w.Close()
}
