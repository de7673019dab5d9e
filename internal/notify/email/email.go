// Package email sends transactional mail to MotoCare users.
package email

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/charmbracelet/log"
	mail "github.com/xhit/go-simple-mail/v2"

	"github.com/motocare/motocare/internal/config"
)

// NotificationService handles welcome and service reminder emails.
type NotificationService struct {
	config *config.EmailConfig
}

// VehicleDue describes one vehicle listed in a reminder digest.
type VehicleDue struct {
	Name        string
	PlateNumber string
	NextDueDate string
	NextDueKM   int
	KMLeft      int
	DaysLeft    int
	Status      string
}

// ReminderNotification contains the data for a user's reminder digest email.
type ReminderNotification struct {
	UserEmail string
	UserName  string
	Vehicles  []VehicleDue
	DryRun    bool
}

// New creates a new email notification service.
func New(cfg *config.EmailConfig) *NotificationService {
	return &NotificationService{
		config: cfg,
	}
}

//go:embed templates/*.html
var templatesFS embed.FS

// SendWelcome sends the account creation email to a new user.
func (n *NotificationService) SendWelcome(toEmail, username string) error {
	if !n.config.Enabled {
		log.Debug("Email notifications are disabled, skipping welcome email")
		return nil
	}
	if toEmail == "" {
		log.Warn("User email is empty, skipping welcome email", "user", username)
		return nil
	}

	body, err := n.generateBody("welcome.html", map[string]string{
		"Username": username,
		"Email":    toEmail,
	})
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return n.sendEmail(toEmail, "Selamat Datang di MotoCare App!", body)
}

// SendDueReminder sends a digest of vehicles that are due or nearly due
// for service.
func (n *NotificationService) SendDueReminder(notification ReminderNotification) error {
	if !n.config.Enabled {
		log.Debug("Email notifications are disabled, skipping reminder")
		return nil
	}
	if notification.UserEmail == "" {
		log.Warn("User email is empty, skipping reminder", "user", notification.UserName)
		return nil
	}
	if len(notification.Vehicles) == 0 {
		return nil
	}

	subject := fmt.Sprintf("[MotoCare] Service Reminder - %d vehicle(s) need attention", len(notification.Vehicles))

	if notification.DryRun {
		log.Debug("DRY RUN: Would send reminder email",
			"to", notification.UserEmail,
			"subject", subject,
			"vehicle_count", len(notification.Vehicles))
		return nil
	}

	body, err := n.generateBody("reminder.html", notification)
	if err != nil {
		return fmt.Errorf("failed to generate email body: %w", err)
	}

	return n.sendEmail(notification.UserEmail, subject, body)
}

func (n *NotificationService) generateBody(name string, data any) (string, error) {
	t, err := template.New("").ParseFS(templatesFS, "templates/*.html")
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

	if n.config.UseSSL {
		server.Encryption = mail.EncryptionSSLTLS
	} else if n.config.UseTLS {
		server.Encryption = mail.EncryptionSTARTTLS
	} else {
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

	email := mail.NewMSG()

	fromName := n.config.FromName
	if fromName == "" {
		fromName = "MotoCare"
	}
	email.SetFrom(fmt.Sprintf("%s <%s>", fromName, n.config.FromEmail))
	email.AddTo(to)
	email.SetSubject(subject)
	email.SetBody(mail.TextHTML, body)

	if err := email.Send(smtpClient); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Info("Email sent successfully", "to", to, "subject", subject)
	return nil
}
