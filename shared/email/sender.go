package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"video-gallery/internal/models"
	"video-gallery/shared/config"
)

type Sender struct {
	config   *config.EmailConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config:   cfg,
		sendMail: smtp.SendMail,
	}
}

// SendAuditReport mails the missing-metadata audit. Reports without flagged
// URLs are not sent.
func (s *Sender) SendAuditReport(report *models.AuditReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}

	if len(report.Flagged) == 0 {
		return nil // Nothing to fix
	}

	subject := fmt.Sprintf("Video gallery audit - %d URLs missing metadata (%s)",
		len(report.Flagged), report.Date.Format("Jan 2, 2006"))

	body, err := s.generateEmailBody(report)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return s.SendHTML(subject, body)
}

// SendHTML sends an email with custom HTML content
func (s *Sender) SendHTML(subject, htmlBody string) error {
	return s.sendViaSMTP(subject, htmlBody)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	if err := s.sendMail(addr, auth, s.config.FromEmail, to, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var auditTemplate = template.Must(template.New("audit").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;">
    <h2>Video metadata audit</h2>
    <p>Checked {{.Checked}} cached URLs, skipped {{.Skipped}}, {{len .Flagged}} missing title and/or thumbnail.</p>
    <table cellpadding="6" style="border-collapse: collapse;">
        <tr style="text-align: left;">
            <th>Media types</th><th>URL</th><th>Missing</th><th>Source</th><th>Rows</th>
        </tr>
        {{- range .Flagged}}
        <tr>
            <td>{{.MediaTypesLabel}}</td>
            <td><a href="{{.URL}}">{{.URL}}</a></td>
            <td>{{.MissingLabel}}</td>
            <td>{{.Source}}</td>
            <td>{{.Rows}}</td>
        </tr>
        {{- end}}
    </table>
</body>
</html>
`))

func (s *Sender) generateEmailBody(report *models.AuditReport) (string, error) {
	var buf bytes.Buffer
	if err := auditTemplate.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
