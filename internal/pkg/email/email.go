package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-hr-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxAttempts = 3

// Mailer sends HR notification emails.
type Mailer interface {
	SendLeaveDecision(to string, data LeaveDecision) error
	SendResignationDecision(to string, data ResignationDecision) error
	SendSalarySlip(to string, data SalarySlip) error
}

type LeaveDecision struct {
	Name      string
	LeaveType string
	StartDate string
	EndDate   string
	Status    string
	Note      string
}

type ResignationDecision struct {
	Name           string
	LastWorkingDay string
	Status         string
	Note           string
}

type SalarySlip struct {
	Name         string
	Month        string
	FinalPayable string
	SlipURL      string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      sendFunc
	retryWait time.Duration
}

func NewMailer(cfg config.SMTPConfig) (Mailer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	return &smtpMailer{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		retryWait: time.Second,
	}, nil
}

func (m *smtpMailer) SendLeaveDecision(to string, data LeaveDecision) error {
	subject := fmt.Sprintf("Leave request %s", data.Status)
	return m.render(to, subject, "leave_decision.html", data)
}

func (m *smtpMailer) SendResignationDecision(to string, data ResignationDecision) error {
	subject := fmt.Sprintf("Resignation %s", data.Status)
	return m.render(to, subject, "resignation_decision.html", data)
}

func (m *smtpMailer) SendSalarySlip(to string, data SalarySlip) error {
	subject := fmt.Sprintf("Salary slip for %s", data.Month)
	return m.render(to, subject, "salary_slip.html", data)
}

func (m *smtpMailer) render(to, subject, name string, data interface{}) error {
	var body bytes.Buffer
	if err := m.templates.ExecuteTemplate(&body, name, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return m.sendHTML(to, subject, body.String())
}

func (m *smtpMailer) sendHTML(to, subject, htmlBody string) error {
	if !m.cfg.Enabled() {
		slog.Debug("SMTP not configured, skipping email", "to", to, "subject", subject)
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lastErr = m.send(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); lastErr == nil {
			slog.Info("Email sent", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}
		slog.Warn("Email send failed", "to", to, "subject", subject, "attempt", attempt, "error", lastErr)
		if attempt < maxAttempts {
			time.Sleep(m.retryWait)
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxAttempts, lastErr)
}
