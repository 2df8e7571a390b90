package notifier

import (
	"context"
	"errors"
	"fmt"
)

// Notifier defines the interface for delivering a menu message
type Notifier interface {
	// Notify delivers text to the notifier's audience
	Notify(ctx context.Context, text string) error
}

// Multi fans a message out to several notifiers. Every notifier is tried;
// failures are joined into the returned error.
type Multi []Notifier

// Notify delivers text through each notifier in order
func (m Multi) Notify(ctx context.Context, text string) error {
	var errs []error
	for i, n := range m {
		if err := n.Notify(ctx, text); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
