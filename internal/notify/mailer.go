package notify

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer sends a single email. The worker treats a send error as final:
// it is logged and the message is dropped, never retried.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	username string
	password string
}

func NewSMTPMailer(host string, port int, from, username, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		from:     from,
		username: username,
		password: password,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if m.host == "" {
		return fmt.Errorf("smtp host not configured")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", m.from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(sb.String()))
}

// LogMailer writes the message to the process log instead of sending it.
// Used in development when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log.Printf("mail (dev mode) to=%s subject=%q: %s", to, subject, body)
	return nil
}
