package lib

import "context"

// Broker is the identity-provider capability behind the cache manager.
// It owns the OAuth2/OIDC exchange entirely: silent refresh decides for
// itself whether a network round trip is needed, and the device-code
// flow polls with its own interval and deadline.
//
// AcquireSilent fails with ErrNoCachedAccount on a cache miss.
// AcquireDeviceCode calls notify once with the user code message, which
// must go to the auxiliary channel, never to the credential stdout.
type Broker interface {
	AcquireSilent(ctx context.Context) (Token, error)
	AcquireInteractive(ctx context.Context) (Token, error)
	AcquireDeviceCode(ctx context.Context, notify func(message string)) (Token, error)
}
