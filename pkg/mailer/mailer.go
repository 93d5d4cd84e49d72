package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
)

// Config holds SMTP configuration
type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// Mailer handles sending emails
type Mailer struct {
	config Config
}

// New creates a new Mailer instance
func New(cfg Config) *Mailer {
	return &Mailer{config: cfg}
}

// SendMessageNotification sends a new-message email to a recipient. The
// preview the caller passes is already truncated; this only renders and
// delivers it.
func (m *Mailer) SendMessageNotification(toEmail, recipientName, senderName, preview string) error {
	subject := fmt.Sprintf("CareNest - New message from %s", senderName)

	body, err := m.renderMessageTemplate(recipientName, senderName, preview)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return m.send(toEmail, subject, body)
}

// send delivers an email via SMTP
func (m *Mailer) send(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%s", m.config.Host, m.config.Port)

	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", m.config.FromName, m.config.From),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=\"utf-8\"",
	}

	var msg bytes.Buffer
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	var auth smtp.Auth
	if m.config.Username != "" && m.config.Password != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	err := smtp.SendMail(addr, auth, m.config.From, []string{to}, msg.Bytes())
	if err != nil {
		log.Printf("❌ Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 Email sent to %s: %s", to, subject)
	return nil
}

// renderMessageTemplate returns the HTML body for a new-message email
func (m *Mailer) renderMessageTemplate(recipientName, senderName, preview string) (string, error) {
	tmpl := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:0;background-color:#f4f7f6;font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;">
    <div style="max-width:500px;margin:40px auto;background:#ffffff;border-radius:16px;overflow:hidden;border:1px solid rgba(45,156,120,0.25);">
        <!-- Header -->
        <div style="background:linear-gradient(135deg,#2d9c78 0%,#3bb98f 100%);padding:32px;text-align:center;">
            <h1 style="color:#fff;margin:0;font-size:28px;font-weight:700;">🍃 CareNest</h1>
            <p style="color:rgba(255,255,255,0.85);margin:8px 0 0;font-size:14px;">New Message</p>
        </div>

        <!-- Body -->
        <div style="padding:32px;">
            <p style="color:#1f2937;font-size:16px;line-height:1.6;margin:0 0 24px;">
                Hi <strong style="color:#2d9c78;">{{.RecipientName}}</strong>,
            </p>
            <p style="color:#4b5563;font-size:14px;line-height:1.6;margin:0 0 24px;">
                <strong>{{.SenderName}}</strong> sent you a message:
            </p>

            <!-- Preview -->
            <div style="background:rgba(45,156,120,0.08);border-left:4px solid #2d9c78;border-radius:8px;padding:20px;margin:0 0 24px;">
                <span style="font-size:15px;color:#374151;font-style:italic;">{{.Preview}}</span>
            </div>

            <p style="color:#6b7280;font-size:13px;line-height:1.5;margin:0;">
                Open CareNest to read and reply.
            </p>
        </div>

        <!-- Footer -->
        <div style="padding:16px 32px;border-top:1px solid rgba(45,156,120,0.15);text-align:center;">
            <p style="color:#9ca3af;font-size:12px;margin:0;">© 2026 CareNest. All rights reserved.</p>
        </div>
    </div>
</body>
</html>`

	t, err := template.New("message").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = t.Execute(&buf, map[string]interface{}{
		"RecipientName": recipientName,
		"SenderName":    senderName,
		"Preview":       preview,
	})
	return buf.String(), err
}
