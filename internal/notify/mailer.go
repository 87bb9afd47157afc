// Package notify renders and delivers user-facing mails.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"sync"
	"time"

	applog "traveleo/internal/log"
)

// Message is a rendered HTML mail for a single recipient.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Mailer delivers a message or reports why it could not.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers over SMTP with STARTTLS and PLAIN auth when offered.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, username: username, password: password, from: from}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	sender, err := mail.ParseAddress(m.from)
	if err != nil {
		return fmt.Errorf("parse sender %q: %w", m.from, err)
	}

	conn, err := (&net.Dialer{Timeout: 10 * time.Second}).DialContext(ctx, "tcp", net.JoinHostPort(m.host, m.port))
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if ok, _ := c.Extension("AUTH"); ok && m.username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := c.Mail(sender.Address); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(buildMIME(m.from, msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return c.Quit()
}

func buildMIME(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", encodeAddress(from))
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

func encodeAddress(addr string) string {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return addr
	}
	return parsed.String()
}

// LogMailer writes mails to the log instead of sending them. The body is
// logged at debug level so local logins can read the passcode.
type LogMailer struct {
	logger *applog.Logger
}

func NewLogMailer(logger *applog.Logger) *LogMailer {
	return &LogMailer{logger: logger.WithComponent(applog.ComponentMail)}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.InfoContext(ctx, "Mail delivered to log", applog.FieldEmail, msg.To, "subject", msg.Subject)
	m.logger.DebugContext(ctx, "Mail body", applog.FieldEmail, msg.To, "html", msg.HTML)
	return nil
}

// MemoryMailer records messages in memory. Err, when set, is returned from
// every Send and nothing is recorded.
type MemoryMailer struct {
	mu   sync.Mutex
	sent []Message
	Err  error
}

func (m *MemoryMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *MemoryMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

// MailPublisher hands a message to a broker for asynchronous delivery.
type MailPublisher interface {
	PublishMail(ctx context.Context, to, subject, html string) error
}

// QueueMailer enqueues messages instead of delivering them.
type QueueMailer struct {
	publisher MailPublisher
}

func NewQueueMailer(publisher MailPublisher) *QueueMailer {
	return &QueueMailer{publisher: publisher}
}

func (m *QueueMailer) Send(ctx context.Context, msg Message) error {
	if err := m.publisher.PublishMail(ctx, msg.To, msg.Subject, msg.HTML); err != nil {
		return fmt.Errorf("enqueue mail: %w", err)
	}
	return nil
}
