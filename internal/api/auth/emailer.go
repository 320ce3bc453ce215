package auth

import (
	"fmt"
	"net/smtp"

	"contracts-app/config"

	"github.com/charmbracelet/log"
)

// Mailer sends plain text mail. Tests swap Mail for a recorder.
type Mailer interface {
	Send(to, subject, body string) error
}

var Mail Mailer = smtpMailer{}

type smtpMailer struct{}

// Send delivers through SMTP_HOST. Without a host configured the message is
// logged instead so local sign-up still works.
func (smtpMailer) Send(to, subject, body string) error {
	if config.SMTP_HOST == "" {
		log.Info("smtp not configured, mail not sent", "to", to, "subject", subject, "body", body)
		return nil
	}

	auth := smtp.PlainAuth("", config.SMTP_FROM, config.SMTP_PASSWORD, config.SMTP_HOST)
	message := []byte("Subject: " + subject + "\r\n" +
		"From: " + config.SMTP_FROM + "\r\n" +
		"To: " + to + "\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(config.SMTP_HOST+":"+config.SMTP_PORT, auth, config.SMTP_FROM, []string{to}, message); err != nil {
		log.Error("smtp send failed", "to", to, "err", err)
		return err
	}
	return nil
}

func sendVerificationEmail(to, token string) error {
	link := fmt.Sprintf("%s/verify?token=%s", config.API_URL, token)
	return Mail.Send(to, "Verify your account",
		fmt.Sprintf("Click the following link to verify your account:\n\n%s", link))
}

func sendPasswordResetEmail(to, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", config.APP_URL, token)
	return Mail.Send(to, "Reset your password",
		fmt.Sprintf("Use this link within one hour to choose a new password:\n\n%s", link))
}
