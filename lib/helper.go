package lib

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	log "github.com/sirupsen/logrus"
)

// BearerUsername is the synthetic username emitted alongside the bearer
// token for callers that only understand username/password pairs.
const BearerUsername = "oauth2"

// Helper is the credential helper orchestrator: one instance handles one
// git invocation. The collaborator fields default to the real git
// config, keyring/file store and MSAL broker; tests substitute fakes.
type Helper struct {
	In      io.Reader
	Out     io.Writer
	Options Options

	LookupGitConfig GitConfigLookup
	OpenStore       func(cfg ResolvedConfig, backend string) (CacheStore, error)
	NewBroker       func(cfg ResolvedConfig, store cache.ExportReplace) (Broker, error)
	Notify          func(message string)
}

// Get answers git's credential query. Per the credential-helper
// contract, "no credential" is an empty response with exit 0; a non-nil
// error here means a genuine invocation or configuration problem and
// becomes a non-zero exit.
func (h *Helper) Get(ctx context.Context) error {
	req, err := DecodeRequest(h.In)
	if err != nil {
		return err
	}

	cfg, err := Resolve(req, h.LookupGitConfig, h.Options)
	if err != nil {
		if errors.Is(err, ErrMissingIdentityParameters) {
			log.Warnf("declining credential request: %v", err)
			return EncodeResponse(h.Out, CredentialResponse{})
		}
		return err
	}

	store, err := h.openStore(cfg)
	if err != nil {
		return err
	}
	broker, err := h.newBroker(cfg, store)
	if err != nil {
		return err
	}

	provider := &TokenProvider{
		Broker:   broker,
		FlowMode: cfg.FlowMode,
		Notify:   h.notify(),
	}
	token, err := provider.Acquire(ctx)
	if err != nil {
		log.Warnf("token acquisition failed: %v", err)
		return EncodeResponse(h.Out, CredentialResponse{})
	}

	resp := CredentialResponse{
		Username: BearerUsername,
		Password: token.Secret,
	}
	if !token.ExpiresOn.IsZero() {
		resp.ExpiryUTC = token.ExpiresOn.Unix()
	}
	if req.SupportsAuthType() {
		resp.Capability = []string{"authtype"}
		resp.AuthType = "Bearer"
		resp.Credential = token.Secret
	}

	return EncodeResponse(h.Out, resp)
}

// Store accepts git's store action as a no-op. The refresh artifacts git
// would have us save already live in the broker's cache; writing git's
// plaintext copy over them would only corrupt state.
func (h *Helper) Store(ctx context.Context) error {
	if _, err := DecodeRequest(h.In); err != nil {
		return err
	}
	log.Debugf("store action ignored, token lifecycle is owned by the broker cache")
	return nil
}

// Erase removes the cached account token for the resolved account key.
// Erasing an entry that does not exist, or one whose account cannot be
// resolved, is not an error.
func (h *Helper) Erase(ctx context.Context) error {
	req, err := DecodeRequest(h.In)
	if err != nil {
		return err
	}

	cfg, err := Resolve(req, h.LookupGitConfig, h.Options)
	if err != nil {
		if errors.Is(err, ErrMissingIdentityParameters) {
			log.Debugf("nothing to erase: %v", err)
			return nil
		}
		return err
	}

	store, err := h.openStore(cfg)
	if err != nil {
		return err
	}

	log.Debugf("erasing cached token for %s", cfg.CacheKey())
	return store.Erase(ctx)
}

func (h *Helper) openStore(cfg ResolvedConfig) (CacheStore, error) {
	if h.OpenStore != nil {
		return h.OpenStore(cfg, h.Options.Backend)
	}
	return OpenStore(cfg, h.Options.Backend)
}

func (h *Helper) newBroker(cfg ResolvedConfig, store CacheStore) (Broker, error) {
	if h.NewBroker != nil {
		return h.NewBroker(cfg, store)
	}
	return NewMSALBroker(cfg, store)
}

func (h *Helper) notify() func(string) {
	if h.Notify != nil {
		return h.Notify
	}
	return func(message string) {
		fmt.Fprintln(os.Stderr, message)
	}
}
