package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"

	"dinedash-server/config"
	"dinedash-server/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// deliverFunc matches smtp.SendMail and is swapped in tests.
type deliverFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTP renders the embedded html templates and mails them through one
// account.
type SMTP struct {
	cfg     config.MailSettings
	deliver deliverFunc
}

var _ Sender = (*SMTP)(nil)

func NewSMTP(cfg config.MailSettings) *SMTP {
	s := &SMTP{cfg: cfg}
	s.deliver = s.send
	return s
}

func (s *SMTP) SendInvoice(ctx context.Context, order *models.Order) error {
	return s.mail(ctx, order.Email, "Your DineDash invoice", "invoice.html", order)
}

func (s *SMTP) SendPartnerInstruction(ctx context.Context, email, name string) error {
	return s.mail(ctx, email, "Welcome aboard, DineDash partner", "partner.html", map[string]string{"Name": name})
}

func (s *SMTP) SendRiderInstruction(ctx context.Context, email, name string) error {
	return s.mail(ctx, email, "Welcome to the DineDash rider team", "rider.html", map[string]string{"Name": name})
}

func (s *SMTP) SendRejection(ctx context.Context, email, name string) error {
	return s.mail(ctx, email, "About your DineDash application", "rejection.html", map[string]string{"Name": name})
}

func (s *SMTP) SendVerificationCode(ctx context.Context, email, code string) error {
	return s.mail(ctx, email, "Your DineDash verification code", "verification.html", map[string]string{"Code": code})
}

func (s *SMTP) mail(ctx context.Context, to, subject, tmpl string, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.Username == "" {
		return fmt.Errorf("mail: username not configured")
	}

	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("mail: render %s: %w", tmpl, err)
	}

	from := fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	raw := buildRaw(from, to, subject, body.String())
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := s.deliver(addr, auth, s.cfg.From, []string{to}, raw); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

// send uses implicit TLS on 465 and STARTTLS otherwise.
func (s *SMTP) send(addr string, auth smtp.Auth, from string, to []string, raw []byte) error {
	if s.cfg.Port != "465" {
		return smtp.SendMail(addr, auth, from, to, raw)
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.Host})
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}
	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return err
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
	if _, err := w.Write(raw); err != nil {
		return err
	}
	return w.Close()
}

func buildRaw(from, to, subject, html string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}
