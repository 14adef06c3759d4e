// Package email provides email sending functionality
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// Template names
const (
	TemplateMembershipWelcome  = "membership_welcome"
	TemplateRegistrationNotice = "registration_notice"
	TemplateContactNotice      = "contact_notice"
	TemplateAdminDigest        = "admin_digest"
)

// Config holds email configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	UseTLS   bool
}

// Service handles email sending
type Service struct {
	config    *Config
	templates map[string]*template.Template
}

// NewService creates a new email service
func NewService(config *Config) *Service {
	s := &Service{
		config:    config,
		templates: make(map[string]*template.Template),
	}
	s.loadTemplates()
	return s
}

// Configured reports whether an SMTP host is set.
func (s *Service) Configured() bool {
	return s.config != nil && s.config.Host != ""
}

// Email represents an email message
type Email struct {
	To       []string
	CC       []string
	BCC      []string
	Subject  string
	Body     string
	HTMLBody string
}

// MembershipWelcomeData holds data for the welcome email sent after a membership application
type MembershipWelcomeData struct {
	FirstName          string
	RegistrationNumber string
	EventsURL          string
}

// RegistrationNoticeData holds data for the admin notice about a new event registration
type RegistrationNoticeData struct {
	EventTitle         string
	Name               string
	Course             string
	RegistrationNumber string
	PhoneNumber        string
	DashboardURL       string
}

// ContactNoticeData holds data for the admin notice about a new contact message
type ContactNoticeData struct {
	Name         string
	Email        string
	Subject      string
	Message      string
	DashboardURL string
}

// DigestData holds the daily admin activity summary
type DigestData struct {
	Date             string `json:"date"`
	NewMembers       int    `json:"new_members"`
	NewInterests     int    `json:"new_interests"`
	NewRegistrations int    `json:"new_registrations"`
	UnreadContacts   int    `json:"unread_contacts"`
	DashboardURL     string `json:"dashboard_url"`
}

const baseStyle = `
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #166534; color: white; padding: 24px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 24px; border-radius: 0 0 8px 8px; }
        .card { background: white; border-radius: 8px; padding: 16px; margin: 16px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .btn { display: inline-block; background: #166534; color: white; padding: 12px 20px; text-decoration: none; border-radius: 6px; margin-top: 16px; }
        .footer { margin-top: 24px; font-size: 12px; color: #6b7280; text-align: center; }
`

func page(title, body string) string {
	return `<!DOCTYPE html>
<html>
<head>
    <style>` + baseStyle + `</style>
</head>
<body>
<div class="container">
    <div class="header">
        <h2>` + title + `</h2>
    </div>
    <div class="content">` + body + `
    </div>
    <div class="footer">
        EKUSA • Student Association
    </div>
</div>
</body>
</html>
`
}

// loadTemplates loads all email templates
func (s *Service) loadTemplates() {
	s.templates[TemplateMembershipWelcome] = template.Must(template.New(TemplateMembershipWelcome).Parse(page(
		"Welcome to EKUSA 🎉", `
        <p>Hi {{.FirstName}},</p>
        <p>Thank you for applying for EKUSA membership. Your application has been received.</p>
        <div class="card">
            <p><strong>Registration number:</strong> {{.RegistrationNumber}}</p>
        </div>
        <p>You can now show interest in upcoming events with a single click.</p>
        <a href="{{.EventsURL}}" class="btn">Browse Events</a>`)))

	s.templates[TemplateRegistrationNotice] = template.Must(template.New(TemplateRegistrationNotice).Parse(page(
		"📝 New Event Registration", `
        <p>A new registration was submitted for <strong>{{.EventTitle}}</strong>.</p>
        <div class="card">
            <p><strong>Name:</strong> {{.Name}}</p>
            <p><strong>Course:</strong> {{.Course}}</p>
            <p><strong>Registration number:</strong> {{.RegistrationNumber}}</p>
            <p><strong>Phone:</strong> {{.PhoneNumber}}</p>
        </div>
        <a href="{{.DashboardURL}}" class="btn">Open Dashboard</a>`)))

	s.templates[TemplateContactNotice] = template.Must(template.New(TemplateContactNotice).Parse(page(
		"✉️ New Contact Message", `
        <p><strong>{{.Name}}</strong> ({{.Email}}) sent a message{{if .Subject}} about <strong>{{.Subject}}</strong>{{end}}.</p>
        <div class="card">
            <p>{{.Message}}</p>
        </div>
        <a href="{{.DashboardURL}}" class="btn">Open Dashboard</a>`)))

	s.templates[TemplateAdminDigest] = template.Must(template.New(TemplateAdminDigest).Parse(page(
		"📊 Daily Activity Digest", `
        <p>Activity for {{.Date}}:</p>
        <div class="card">
            <p><strong>New members:</strong> {{.NewMembers}}</p>
            <p><strong>Event interests:</strong> {{.NewInterests}}</p>
            <p><strong>Event registrations:</strong> {{.NewRegistrations}}</p>
            <p><strong>Unread contact messages:</strong> {{.UnreadContacts}}</p>
        </div>
        <a href="{{.DashboardURL}}" class="btn">Open Dashboard</a>`)))
}

// Send sends an email
func (s *Service) Send(email *Email) error {
	if !s.Configured() {
		log.Printf("[Email] SMTP not configured, skipping %q", email.Subject)
		return nil
	}

	var msg bytes.Buffer

	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(email.To, ", ")))
	if len(email.CC) > 0 {
		msg.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(email.CC, ", ")))
	}
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTMLBody != "" {
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.HTMLBody)
	} else {
		msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(email.Body)
	}

	recipients := append([]string{}, email.To...)
	recipients = append(recipients, email.CC...)
	recipients = append(recipients, email.BCC...)

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if !s.config.UseTLS {
		return smtp.SendMail(addr, auth, s.config.From, recipients, msg.Bytes())
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("TLS dial error: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("SMTP client error: %w", err)
	}
	defer client.Close()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("auth error: %w", err)
	}
	if err = client.Mail(s.config.From); err != nil {
		return fmt.Errorf("mail error: %w", err)
	}
	for _, rcpt := range recipients {
		if err = client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt error: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data error: %w", err)
	}
	if _, err = w.Write(msg.Bytes()); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("close error: %w", err)
	}

	return client.Quit()
}

// Render executes a named template.
func (s *Service) Render(templateName string, data interface{}) (string, error) {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return body.String(), nil
}

// SendWithTemplate sends an email using a template
func (s *Service) SendWithTemplate(to []string, subject, templateName string, data interface{}) error {
	body, err := s.Render(templateName, data)
	if err != nil {
		return err
	}

	return s.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: body,
	})
}

// ============================================
// Email Queue
// ============================================

type EmailQueue struct {
	service *Service
	queue   chan *queuedEmail
	done    chan struct{}
}

type queuedEmail struct {
	to           []string
	subject      string
	templateName string
	data         interface{}
	retries      int
}

const maxRetries = 3

// NewEmailQueue creates a new email queue
func NewEmailQueue(service *Service, workers int) *EmailQueue {
	q := &EmailQueue{
		service: service,
		queue:   make(chan *queuedEmail, 1000),
		done:    make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		go q.worker()
	}

	return q
}

func (q *EmailQueue) worker() {
	for {
		select {
		case email := <-q.queue:
			err := q.service.SendWithTemplate(email.to, email.subject, email.templateName, email.data)
			if err == nil {
				continue
			}
			log.Printf("[Email] Send error (%s, attempt %d): %v", email.templateName, email.retries+1, err)
			if email.retries < maxRetries {
				email.retries++
				time.Sleep(time.Second * time.Duration(email.retries*2))
				q.push(email)
			}
		case <-q.done:
			return
		}
	}
}

func (q *EmailQueue) push(email *queuedEmail) {
	select {
	case q.queue <- email:
	default:
		log.Printf("[Email] Queue full, dropping %q", email.subject)
	}
}

// Enqueue adds an email to the queue
func (q *EmailQueue) Enqueue(to []string, subject, templateName string, data interface{}) {
	q.push(&queuedEmail{
		to:           to,
		subject:      subject,
		templateName: templateName,
		data:         data,
	})
}

// Stop stops the email queue workers
func (q *EmailQueue) Stop() {
	close(q.done)
}
