package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

const DefaultSubject = "mail.send"

// Message is the job envelope the notification worker consumes.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NATSSender publishes mail jobs for out-of-process delivery. Flush
// makes publish failures visible to the caller instead of buffering
// them past the request.
type NATSSender struct {
	conn    *nats.Conn
	subject string
}

func NewNATSSender(conn *nats.Conn, subject string) *NATSSender {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSSender{conn: conn, subject: subject}
}

func (s *NATSSender) Send(_ context.Context, to string, subject string, body string) error {
	data, err := json.Marshal(Message{To: to, Subject: subject, Body: body})
	if err != nil {
		return err
	}

	if err := s.conn.Publish(s.subject, data); err != nil {
		return fmt.Errorf("error publishing mail job: %w", err)
	}
	if err := s.conn.Flush(); err != nil {
		return fmt.Errorf("error flushing mail job: %w", err)
	}
	return nil
}
