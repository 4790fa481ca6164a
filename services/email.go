package services

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"log"
	"socialcare365/config"
	"strings"
	texttemplate "text/template"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// emailTemplate pairs the HTML and plain-text bodies of one message kind
type emailTemplate struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

func mustEmailTemplate(name, htmlBody, textBody string) emailTemplate {
	return emailTemplate{
		html: htmltemplate.Must(htmltemplate.New(name + ".html").Parse(htmlBody)),
		text: texttemplate.Must(texttemplate.New(name + ".txt").Parse(textBody)),
	}
}

func (t emailTemplate) render(data interface{}) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := t.html.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	if err := t.text.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

var welcomeTemplate = mustEmailTemplate("welcome",
	`<html><body><p>Hello {{.UserName}},</p><p>Your Social Care 365 account is ready. Sign in at <a href="{{.LoginURL}}">{{.LoginURL}}</a> to start managing your cases.</p></body></html>`,
	"Hello {{.UserName}},\n\nYour Social Care 365 account is ready. Sign in at {{.LoginURL}} to start managing your cases.\n",
)

var meetingReminderTemplate = mustEmailTemplate("meeting_reminder",
	`<html><body><p>Hello {{.UserName}},</p><p>Reminder: <strong>{{.Title}}</strong> ({{.MeetingType}}) is scheduled for {{.When}}{{if .Location}} at {{.Location}}{{end}}.</p>{{if .CaseName}}<p>Case: {{.CaseName}}</p>{{end}}</body></html>`,
	"Hello {{.UserName}},\n\nReminder: {{.Title}} ({{.MeetingType}}) is scheduled for {{.When}}{{if .Location}} at {{.Location}}{{end}}.\n{{if .CaseName}}Case: {{.CaseName}}\n{{end}}",
)

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("[EMAIL] Sent via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n[EMAIL] Test mode, not sent\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// SendEmailAsync sends an email in a goroutine so handlers do not block on delivery
func SendEmailAsync(cfg *config.Config, email *Email) {
	// Copy to avoid sharing the caller's slices
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("[EMAIL] Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

// BuildWelcomeEmail creates the welcome email sent after registration
func BuildWelcomeEmail(userEmail, userName, appURL string) (*Email, error) {
	html, text, err := welcomeTemplate.render(struct {
		UserName string
		LoginURL string
	}{userName, strings.TrimSuffix(appURL, "/") + "/login"})
	if err != nil {
		return nil, err
	}

	return &Email{
		To:       []string{userEmail},
		Subject:  "Welcome to Social Care 365",
		HTMLBody: html,
		TextBody: text,
	}, nil
}

// MeetingReminderEmailData contains data for the meeting reminder email
type MeetingReminderEmailData struct {
	UserName    string
	Title       string
	MeetingType string
	When        string
	Location    string
	CaseName    string
}

// BuildMeetingReminderEmail creates the reminder sent ahead of a meeting
func BuildMeetingReminderEmail(userEmail string, data MeetingReminderEmailData) (*Email, error) {
	html, text, err := meetingReminderTemplate.render(data)
	if err != nil {
		return nil, err
	}

	return &Email{
		To:       []string{userEmail},
		Subject:  "Meeting reminder: " + data.Title,
		HTMLBody: html,
		TextBody: text,
	}, nil
}
