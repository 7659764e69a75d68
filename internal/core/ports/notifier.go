package ports

import "context"

// Notifier delivers a plain-text message to the operations team.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
