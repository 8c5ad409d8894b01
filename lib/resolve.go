package lib

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// Config keys consumed through `git config --get-urlmatch`, i.e. users
// set credential.<url>.msalClientId / credential.<url>.msalTenantId.
const (
	ConfigKeyClientID = "credential.msalClientId"
	ConfigKeyTenantID = "credential.msalTenantId"
)

// paramSource is one named place a parameter may come from. Sources are
// evaluated in priority order, first non-empty value wins.
type paramSource struct {
	name   string
	lookup func(param string) string
}

// Resolve merges git config, the server's Bearer challenge and the
// invocation flags into one ResolvedConfig.
//
// Per-parameter precedence, highest first:
//  1. explicit git configuration for the request URL
//  2. the first usable Bearer challenge in wwwauth[]
//
// Each of clientId/tenantId resolves independently, so config may supply
// one and the challenge the other. Flow mode and cache mode come only
// from flags. Fails with ErrMissingIdentityParameters when either id is
// left unresolved; the caller decides whether that is a decline (get) or
// a no-op (erase).
func Resolve(req CredentialRequest, lookup GitConfigLookup, opts Options) (ResolvedConfig, error) {
	if lookup == nil {
		lookup = GitConfigURLMatch
	}

	url := req.URL()
	challenge, _ := firstBearerChallenge(ParseChallenges(req.WWWAuth))

	sources := []paramSource{
		{
			name: "git config",
			lookup: func(param string) string {
				switch param {
				case ParamClientID:
					return lookup(url, ConfigKeyClientID)
				case ParamTenantID:
					return lookup(url, ConfigKeyTenantID)
				}
				return ""
			},
		},
		{
			name: "www-authenticate challenge",
			lookup: func(param string) string {
				v, _ := challenge.Param(param)
				return v
			},
		},
	}

	cfg := ResolvedConfig{
		ClientID:  pick(sources, ParamClientID),
		TenantID:  pick(sources, ParamTenantID),
		FlowMode:  FlowInteractive,
		CacheMode: CacheSecure,
	}
	if opts.DeviceCode {
		cfg.FlowMode = FlowDeviceCode
	}
	if opts.Insecure {
		cfg.CacheMode = CacheInsecure
	}

	var missing []string
	if cfg.ClientID == "" {
		missing = append(missing, "client id")
	}
	if cfg.TenantID == "" {
		missing = append(missing, "tenant id")
	}
	if len(missing) > 0 {
		return ResolvedConfig{}, xerrors.Errorf("no Microsoft Entra %s for %s in git config or server challenge: %w",
			strings.Join(missing, " or "), url, ErrMissingIdentityParameters)
	}

	return cfg, nil
}

func pick(sources []paramSource, param string) string {
	for _, s := range sources {
		if v := s.lookup(param); v != "" {
			log.Debugf("using %s from %s", param, s.name)
			return v
		}
	}
	return ""
}
