// Package email sends notification emails to the administrator.
package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/leafcheck/internal/config"
	"github.com/jon4hz/leafcheck/internal/store"
	"github.com/mergestat/timediff"
	mail "github.com/xhit/go-simple-mail/v2"
)

// NotificationService handles email notifications.
type NotificationService struct {
	config    *config.EmailConfig
	serverURL string
	send      func(to, subject, body string) error
}

// RegistrationNotification contains the data for a new-account email.
type RegistrationNotification struct {
	Identifier   string
	Name         string
	RegisteredAt time.Time
	ServerURL    string
}

// New creates a new email notification service.
func New(cfg *config.EmailConfig, serverURL string) *NotificationService {
	n := &NotificationService{
		config:    cfg,
		serverURL: serverURL,
	}
	n.send = n.sendEmail
	return n
}

// NotifyRegistration tells the admin about a new account. The mail is sent in the background,
// only rendering errors are returned.
func (n *NotificationService) NotifyRegistration(_ context.Context, account store.Account) error {
	if !n.config.Enabled {
		log.Debug("Email notifications are disabled, skipping notification")
		return nil
	}
	if n.config.AdminEmail == "" {
		log.Warn("Admin email is empty, skipping notification", "identifier", account.Identifier)
		return nil
	}

	notification := RegistrationNotification{
		Identifier:   account.Identifier,
		Name:         account.FullName(),
		RegisteredAt: account.CreatedAt,
		ServerURL:    n.serverURL,
	}
	subject := fmt.Sprintf("[Leafcheck] New registration: %s", account.Identifier)

	body, err := n.generateEmailBody("registration.html", notification)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	go func() {
		if err := n.send(n.config.AdminEmail, subject, body); err != nil {
			log.Error("Failed to send registration notification", "identifier", account.Identifier, "error", err)
		}
	}()
	return nil
}

//go:embed templates/*.html
var templatesFS embed.FS

var funcs = template.FuncMap{
	"ago": func(t time.Time) string {
		return timediff.TimeDiff(t)
	},
	"datetime": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
}

// generateEmailBody creates the HTML email body.
func (n *NotificationService) generateEmailBody(name string, data any) (string, error) {
	t, err := template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sendEmail sends an email using go-simple-mail library.
func (n *NotificationService) sendEmail(to, subject, body string) error {
	server := mail.NewSMTPClient()
	server.Host = n.config.SMTPHost
	server.Port = n.config.SMTPPort
	server.Username = n.config.Username
	server.Password = n.config.Password

	switch {
	case n.config.UseSSL:
		server.Encryption = mail.EncryptionSSLTLS
	case n.config.UseTLS:
		server.Encryption = mail.EncryptionSTARTTLS
	default:
		server.Encryption = mail.EncryptionNone
	}

	if n.config.InsecureSkipVerify {
		server.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	smtpClient, err := server.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		if closeErr := smtpClient.Close(); closeErr != nil {
			log.Warn("Failed to close SMTP client", "error", closeErr)
		}
	}()

	fromName := n.config.FromName
	if fromName == "" {
		fromName = "Leafcheck"
	}

	email := mail.NewMSG()
	email.SetFrom(fmt.Sprintf("%s <%s>", fromName, n.config.FromEmail))
	email.AddTo(to)
	email.SetSubject(subject)
	email.SetBody(mail.TextHTML, body)

	if err := email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("Email notification sent successfully", "to", to, "subject", subject)
	return nil
}
