package line

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by every call on the disabled client.
var ErrNotConfigured = errors.New("LINE channel is not configured")

// Disabled is the Client used when no channel credentials are present.
// Sends fail per recipient instead of crashing the service at startup.
type Disabled struct{}

func (Disabled) PushText(ctx context.Context, userID, text string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) TestConnection(ctx context.Context) error {
	return ErrNotConfigured
}
