// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/procurehub/rfp-backend/internal/config"
	"github.com/procurehub/rfp-backend/internal/models"
)

type NotificationService struct {
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(config *config.Config) *NotificationService {
	return &NotificationService{
		config: config,
	}
}

// SendResponseSubmittedEmail tells the buyer a new response arrived on
// their RFP.
func (s *NotificationService) SendResponseSubmittedEmail(buyer *models.User, rfp *models.RFP, supplier *models.User) error {
	data := map[string]interface{}{
		"BuyerName":    buyer.Username,
		"SupplierName": supplier.Username,
		"RFPTitle":     rfp.Title,
		"RFPURL":       fmt.Sprintf("%s/rfps/%s", s.config.Frontend.BaseURL, rfp.ID),
	}

	subject := "New Response Received - " + rfp.Title
	tmpl := s.getEmailTemplate("response_submitted")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(buyer.Email, subject, body)
}

// SendResponseDecidedEmail tells a supplier their response was approved
// or rejected.
func (s *NotificationService) SendResponseDecidedEmail(supplier *models.User, rfp *models.RFP, status models.ResponseStatus) error {
	data := map[string]interface{}{
		"SupplierName": supplier.Username,
		"RFPTitle":     rfp.Title,
		"Decision":     string(status),
		"RFPURL":       fmt.Sprintf("%s/rfps/%s", s.config.Frontend.BaseURL, rfp.ID),
	}

	var subject string
	var tmpl EmailTemplate
	if status == models.ResponseStatusApproved {
		subject = "Response Approved - " + rfp.Title
		tmpl = s.getEmailTemplate("response_approved")
	} else {
		subject = "Response Rejected - " + rfp.Title
		tmpl = s.getEmailTemplate("response_rejected")
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(supplier.Email, subject, body)
}

// Helper methods
func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery skipped (SMTP not configured)")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"response_submitted": {
			Subject: "New Response Received",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>New Response on "{{.RFPTitle}}"</h2>
	<p>Hello {{.BuyerName}},</p>
	<p>{{.SupplierName}} submitted a response to your RFP "{{.RFPTitle}}".</p>
	<a href="{{.RFPURL}}">Review Responses</a>
	<p>Best regards,<br>RFP Platform Team</p>
</body>
</html>`,
		},
		"response_approved": {
			Subject: "Response Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Your Response Was Approved</h2>
	<p>Hello {{.SupplierName}},</p>
	<p>Your response to "{{.RFPTitle}}" has been approved. The buyer will be in touch with next steps.</p>
	<a href="{{.RFPURL}}">View RFP</a>
	<p>Best regards,<br>RFP Platform Team</p>
</body>
</html>`,
		},
		"response_rejected": {
			Subject: "Response Rejected",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Your Response Was Not Selected</h2>
	<p>Hello {{.SupplierName}},</p>
	<p>Your response to "{{.RFPTitle}}" was not selected this time.</p>
	<a href="{{.RFPURL}}">View RFP</a>
	<p>Best regards,<br>RFP Platform Team</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Decision}}</p>",
	}
}
