package ports

import "context"

// MailDispatcher delivers outbound mail. Message composition beyond a plain
// subject and body is not this core's concern.
type MailDispatcher interface {
	Send(ctx context.Context, to, subject, body string) error
}
