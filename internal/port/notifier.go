package port

import "context"

type Notifier interface {
	// Error surfaces a failure message to the shopper
	Error(ctx context.Context, message string)
}
