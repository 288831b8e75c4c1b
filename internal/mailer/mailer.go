package mailer

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/dgclarke/offermail/internal/config"
)

// ErrNotConfigured is returned when the smtp settings are absent.
var ErrNotConfigured = errors.New("smtp is not configured")

// Mailer sends the generated table to the operator's own inbox, so the
// result can be eyeballed in a real mail client before it goes into the
// campaign tool.
type Mailer struct {
	cfg config.Config
}

func New(cfg config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Configured reports whether a test send is possible.
func (m *Mailer) Configured() bool {
	return m.cfg.SMTPHost != "" && m.cfg.SMTPFrom != "" && m.cfg.SMTPTo != ""
}

// SendTest delivers html as the body of a throwaway message to the
// configured address.
func (m *Mailer) SendTest(subject, html string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", m.cfg.SMTPTo)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPassword)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending test mail: %w", err)
	}
	return nil
}
