package lib

import (
	"strings"
	"time"
)

// CredentialRequest is one decoded git credential query, as fed to the
// helper on stdin. Fields not listed in the git-credential man page are
// dropped during decoding.
type CredentialRequest struct {
	Protocol string
	Host     string
	Path     string
	Username string
	Password string
	// WWWAuth holds the WWW-Authenticate header values in the order the
	// server sent them (the wwwauth[] attribute).
	WWWAuth []string
	// Capability holds the capability[] values advertised by git.
	Capability []string
}

// URL returns the request target in the form git uses for
// credential.<url>.* config matching.
func (r CredentialRequest) URL() string {
	u := r.Protocol + "://" + r.Host
	if r.Path != "" {
		u += "/" + r.Path
	}
	return u
}

// SupportsAuthType reports whether the calling git advertised the
// authtype capability, i.e. it can consume authtype/credential pairs
// instead of username/password.
func (r CredentialRequest) SupportsAuthType() bool {
	for _, c := range r.Capability {
		if strings.EqualFold(c, "authtype") {
			return true
		}
	}
	return false
}

// CredentialResponse is the answer written back to git. A zero response
// encodes to nothing but the terminating blank line, which git treats as
// "no credential available".
type CredentialResponse struct {
	Capability []string
	AuthType   string
	Credential string
	Username   string
	Password   string
	// ExpiryUTC is the password_expiry_utc attribute, seconds since epoch.
	// Zero means unknown.
	ExpiryUTC int64
}

// ChallengeParam is one auth-param from a WWW-Authenticate challenge.
type ChallengeParam struct {
	Key   string
	Value string
}

// AuthChallenge is one parsed WWW-Authenticate value. Params preserves
// the server's ordering; unknown parameters are kept but ignored by the
// resolver.
type AuthChallenge struct {
	Scheme string
	Params []ChallengeParam
}

// FlowMode selects how a token is acquired when the cache cannot satisfy
// the request silently.
type FlowMode string

const (
	FlowInteractive FlowMode = "interactive"
	FlowDeviceCode  FlowMode = "device-code"
)

// CacheMode selects where the broker token cache is persisted.
type CacheMode string

const (
	CacheSecure   CacheMode = "secure"
	CacheInsecure CacheMode = "insecure"
)

// ResolvedConfig is the single source of truth for one invocation. It is
// built once by Resolve and never mutated afterwards.
type ResolvedConfig struct {
	ClientID  string
	TenantID  string
	FlowMode  FlowMode
	CacheMode CacheMode
}

// CacheKey names the cached account for this tenant/client pair. There
// is at most one live cache entry per key.
func (c ResolvedConfig) CacheKey() string {
	return c.TenantID + "_" + c.ClientID
}

// KeyringKey is the secret-store item key for this account.
func (c ResolvedConfig) KeyringKey() string {
	return "git-credential-msal_" + c.CacheKey()
}

// Token is one credential produced by the identity broker. Secret is the
// raw OIDC ID token; the server verifies its signature, we only carry it.
type Token struct {
	Secret    string
	Account   string
	ExpiresOn time.Time
}

// Options carries the invocation flags into the resolver.
type Options struct {
	DeviceCode bool
	Insecure   bool
	// Backend forces a specific keyring backend, empty means any secure
	// backend available on the platform.
	Backend string
}
