package mail

import (
	"fmt"
	"io"

	"studysync/backend/internal/config"
)

// New builds the mailer named by MAIL_BACKEND. The console mailer writes to
// out.
func New(cfg config.Config, out io.Writer) (Mailer, error) {
	from := Address{Name: cfg.MailFromName, Email: cfg.MailFrom}
	switch cfg.MailBackend {
	case "", config.MailConsole:
		return NewConsoleMailer(out, from), nil
	case config.MailSendgrid:
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is required for MAIL_BACKEND=sendgrid")
		}
		return NewSendgridMailer(cfg.SendgridAPIKey, from), nil
	default:
		return nil, fmt.Errorf("unknown MAIL_BACKEND %q", cfg.MailBackend)
	}
}
