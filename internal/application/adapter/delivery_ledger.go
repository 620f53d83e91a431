// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// DeliveryLedger remembers which report messages were already emailed so a
// redelivered message does not produce a second email.
type DeliveryLedger interface {
	// Seen reports whether key was recorded as delivered.
	Seen(ctx context.Context, key string) (bool, error)

	// Record marks key as delivered.
	Record(ctx context.Context, key string) error
}
