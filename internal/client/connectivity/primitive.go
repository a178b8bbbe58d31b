package connectivity

import "context"

//go:generate moq -out primitive_mock.go . Primitive

// Primitive is the platform source of connectivity events.
type Primitive interface {
	// Current returns the connectivity right now. An error means unknown,
	// which the Monitor treats as offline.
	Current(ctx context.Context) (bool, error)

	// Subscribe registers fn for connectivity reports. Reports may repeat
	// the previous value. The returned function cancels the subscription.
	Subscribe(fn func(online bool)) (unsubscribe func())
}
