package mail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrDeliveryFailed = errors.New("email delivery failed")

type Address struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

type Message struct {
	To      Address
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ConsoleMailer writes messages to an io.Writer instead of delivering them.
type ConsoleMailer struct {
	mu   sync.Mutex
	out  io.Writer
	from Address
	sent []Message
}

func NewConsoleMailer(out io.Writer, from Address) *ConsoleMailer {
	return &ConsoleMailer{out: out, from: from}
}

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "From: %s\r\n", m.from)
	_, _ = fmt.Fprintf(body, "To: %s\r\n", msg.To)
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", msg.Subject)
	_, _ = fmt.Fprint(body, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	_, _ = fmt.Fprintf(body, "%s\r\n", msg.Body)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := io.WriteString(m.out, body.String()); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns the messages written so far.
func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}

type SendgridMailer struct {
	client *sendgrid.Client
	from   *sgmail.Email
}

func NewSendgridMailer(apiKey string, from Address) *SendgridMailer {
	return &SendgridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(from.Name, from.Email),
	}
}

func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	to := sgmail.NewEmail(msg.To.Name, msg.To.Email)
	message := sgmail.NewV3MailInit(m.from, msg.Subject, to, sgmail.NewContent("text/plain", msg.Body))

	res, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d: %s", ErrDeliveryFailed, res.StatusCode, res.Body)
	}
	return nil
}
