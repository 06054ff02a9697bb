package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/sandeepkv93/remindd/internal/model"
)

type Message struct {
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

type NoopMailer struct{}

func (NoopMailer) Send(context.Context, Message) error { return nil }

func MessageForTask(t model.Task, cooldown time.Duration) Message {
	return Message{
		Subject: fmt.Sprintf("Task reminder: %s", t.Name),
		Body: fmt.Sprintf("Task: %s\r\nDue: %s\r\n\r\nThe task is still pending. If it is not completed you will receive another reminder in %s.",
			t.Name, t.DueDisplay(), formatCooldown(cooldown)),
	}
}

func formatCooldown(d time.Duration) string {
	if d%time.Hour == 0 {
		h := int(d / time.Hour)
		if h == 1 {
			return "1 hour"
		}
		return strconv.Itoa(h) + " hours"
	}
	return d.String()
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	From     string
	FromName string
	To       string
	// ImplicitTLS dials TLS directly (port 465) instead of STARTTLS.
	ImplicitTLS bool
	Timeout     time.Duration
}

// PasswordFunc resolves the SMTP password at send time.
type PasswordFunc func() (string, error)

func StaticPassword(p string) PasswordFunc {
	return func() (string, error) { return p, nil }
}

type SMTPMailer struct {
	cfg      SMTPConfig
	password PasswordFunc
	now      func() time.Time
}

func NewSMTPMailer(cfg SMTPConfig, password PasswordFunc) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Port <= 0 {
		return nil, errors.New("notify: smtp host and port are required")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, errors.New("notify: smtp from and to addresses are required")
	}
	if cfg.Username == "" {
		cfg.Username = cfg.From
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if password == nil {
		password = StaticPassword("")
	}
	return &SMTPMailer{cfg: cfg, password: password, now: time.Now}, nil
}

func (s *SMTPMailer) Send(ctx context.Context, m Message) error {
	raw, err := s.compose(m)
	if err != nil {
		return err
	}
	pass, err := s.password()
	if err != nil {
		return fmt.Errorf("smtp password: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial to %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}
	if s.cfg.ImplicitTLS {
		conn = tls.Client(conn, tlsConfig)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer client.Close()

	if !s.cfg.ImplicitTLS {
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("SMTP STARTTLS: %w", err)
		}
	}
	if pass != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, pass, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}
	if err := client.Rcpt(s.cfg.To); err != nil {
		return fmt.Errorf("SMTP RCPT TO: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("writing email body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing email body: %w", err)
	}
	return client.Quit()
}

// compose renders m as a UTF-8 text/plain RFC 5322 message.
func (s *SMTPMailer) compose(m Message) ([]byte, error) {
	var h mail.Header
	h.SetDate(s.now())
	h.SetAddressList("From", []*mail.Address{{Name: s.cfg.FromName, Address: s.cfg.From}})
	h.SetAddressList("To", []*mail.Address{{Address: s.cfg.To}})
	h.SetSubject(m.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message writer: %w", err)
	}
	if _, err := w.Write([]byte(m.Body)); err != nil {
		return nil, fmt.Errorf("write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close message writer: %w", err)
	}
	return buf.Bytes(), nil
}
