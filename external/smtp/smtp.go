package smtp

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"
)

// Mailer sends HTML mail through an SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, pass, from string) (*Mailer, error) {
	if host == "" {
		return nil, errors.New("SMTP_HOST not set")
	}
	if from == "" {
		from = user
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}, nil
}

func (m *Mailer) message(to, subject, html string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	return msg
}

// SendHTML dials per message; ctx is honoured only before dialing since
// gomail has no context support.
func (m *Mailer) SendHTML(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.dialer.DialAndSend(m.message(to, subject, html))
}
