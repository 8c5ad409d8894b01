package lib

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// TokenProvider drives the token lifecycle for one get invocation:
// silent acquisition from the persisted cache first, then the flow-mode
// fallback. Persistence happens inside the broker through its wired
// cache accessor.
type TokenProvider struct {
	Broker   Broker
	FlowMode FlowMode
	// Notify receives the device-code user message (user code plus
	// verification URL) for the auxiliary channel.
	Notify func(message string)
}

// Acquire returns a live token or the reason the user ended up without
// one. Transient broker errors during silent acquisition get one
// immediate retry, then fall through to the interactive or device-code
// flow. Errors from the fallback flow are terminal; the caller converts
// them to a declined (empty) credential response.
func (p *TokenProvider) Acquire(ctx context.Context) (Token, error) {
	token, err := p.Broker.AcquireSilent(ctx)
	if err == nil {
		log.Debugf("token acquired silently for %s", token.Account)
		return token, nil
	}

	if isTransient(err) {
		log.Debugf("silent acquisition hit a transient error, retrying once: %v", err)
		if token, err = p.Broker.AcquireSilent(ctx); err == nil {
			return token, nil
		}
	}

	if errors.Is(err, ErrNoCachedAccount) {
		log.Debugf("no cached account, starting %s flow", p.FlowMode)
	} else {
		log.Debugf("silent acquisition failed (%v), starting %s flow", err, p.FlowMode)
	}

	switch p.FlowMode {
	case FlowDeviceCode:
		return p.Broker.AcquireDeviceCode(ctx, p.Notify)
	default:
		return p.Broker.AcquireInteractive(ctx)
	}
}
