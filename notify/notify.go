// Package notify delivers best-effort operator alerts. Delivery failure
// is the caller's to log and drop; trading never halts because an email
// did not go out.
package notify

import (
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Notifier sends an out-of-band alert to the operator.
type Notifier interface {
	Alert(subject, body string) error
}

// sender matches *gomail.Dialer; swapped for a fake in tests.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends alerts over SMTP with TLS. Sender and recipient are the
// operator's own address.
type Mailer struct {
	address string
	send    sender
}

// NewMailer builds a Mailer for the given SMTP host/port, authenticating
// as address with password.
func NewMailer(host string, port int, address, password string) *Mailer {
	d := gomail.NewDialer(host, port, address, password)
	return &Mailer{address: address, send: d}
}

// Alert sends one plain-text message.
func (m *Mailer) Alert(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.address)
	msg.SetHeader("To", m.address)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.send.DialAndSend(msg)
}

// LogNotifier writes alerts to the log only. Used when no email account
// is configured.
type LogNotifier struct{}

func (LogNotifier) Alert(subject, body string) error {
	slog.Info("alert", "subject", subject, "body", body)
	return nil
}
