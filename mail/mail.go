// Package mail delivers transactional email either directly over SMTP
// or by handing the message to a notification worker via NATS.
package mail

import "context"

// Sender delivers a single message. Implementations must report
// failure synchronously; callers compensate on error.
type Sender interface {
	Send(ctx context.Context, to string, subject string, body string) error
}
