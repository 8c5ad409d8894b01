package lib

import (
	"context"
	"errors"
	"net"
	"net/http"

	msalerrors "github.com/AzureAD/microsoft-authentication-library-for-go/apps/errors"
)

// Errors crossing the lib boundary. The cmd layer maps these to exit
// codes: ErrMalformedInput and ErrSecretStoreUnavailable are fatal,
// ErrMissingIdentityParameters and broker failures become an empty
// credential response.
var (
	ErrMalformedInput            = errors.New("malformed credential request")
	ErrMissingIdentityParameters = errors.New("missing Microsoft Entra identity parameters")
	ErrSecretStoreUnavailable    = errors.New("no secure credential store available")
	ErrNoCachedAccount           = errors.New("no cached account")
)

// isTransient reports whether a broker error looks like a network or
// provider blip worth one immediate retry, as opposed to a terminal
// condition (cancellation, revoked grant, user gave up).
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var callErr msalerrors.CallErr
	if errors.As(err, &callErr) {
		if callErr.Resp == nil {
			// request never completed
			return true
		}
		code := callErr.Resp.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
