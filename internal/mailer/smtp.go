package mailer

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// SMTPSender delivers emails over SMTP. When SMTP_HOST is unset it logs a
// mock line instead, so local development needs no mail server.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPSender reads the SMTP configuration from environment variables.
func NewSMTPSender() *SMTPSender {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "Placement Portal <no-reply@placement.com>"
	}

	return &SMTPSender{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: from,
	}
}

// Send delivers one email, or logs it when SMTP is not configured.
func (s *SMTPSender) Send(e Email) error {
	if s.host == "" {
		logrus.WithFields(logrus.Fields{
			"to":      e.To,
			"subject": e.Subject,
		}).Info("SMTP not configured, logging email instead")
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", e.To)
	msg.SetHeader("Subject", e.Subject)
	msg.SetBody("text/plain", e.Body)

	dialer := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return dialer.DialAndSend(msg)
}
