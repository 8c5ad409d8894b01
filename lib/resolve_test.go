package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configWith(values map[string]string) GitConfigLookup {
	return func(url, key string) string {
		return values[key]
	}
}

var noConfig = configWith(nil)

func TestResolveFromChallenge(t *testing.T) {
	req := CredentialRequest{
		Protocol: "https",
		Host:     "dev.example.com",
		WWWAuth:  []string{"Bearer msal-client-id=ABC,msal-tenant-id=XYZ"},
	}

	cfg, err := Resolve(req, noConfig, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ABC", cfg.ClientID)
	assert.Equal(t, "XYZ", cfg.TenantID)
	assert.Equal(t, FlowInteractive, cfg.FlowMode)
	assert.Equal(t, CacheSecure, cfg.CacheMode)
}

func TestResolveConfigWinsOverChallenge(t *testing.T) {
	req := CredentialRequest{
		Protocol: "https",
		Host:     "dev.example.com",
		WWWAuth:  []string{"Bearer msal-client-id=C2,msal-tenant-id=T2"},
	}
	lookup := configWith(map[string]string{
		ConfigKeyClientID: "C1",
	})

	cfg, err := Resolve(req, lookup, Options{})
	require.NoError(t, err)
	assert.Equal(t, "C1", cfg.ClientID, "git config overrides the server challenge")
	assert.Equal(t, "T2", cfg.TenantID, "parameters resolve independently per source")
}

func TestResolveMixedSources(t *testing.T) {
	// tenant from config, client from the challenge
	req := CredentialRequest{
		Protocol: "https",
		Host:     "dev.example.com",
		WWWAuth:  []string{"Bearer msal-client-id=ABC"},
	}
	lookup := configWith(map[string]string{
		ConfigKeyTenantID: "XYZ",
	})

	cfg, err := Resolve(req, lookup, Options{})
	require.NoError(t, err)
	assert.Equal(t, "ABC", cfg.ClientID)
	assert.Equal(t, "XYZ", cfg.TenantID)
}

func TestResolveWithoutChallenge(t *testing.T) {
	// a missing challenge is not fatal when git config is complete
	req := CredentialRequest{Protocol: "https", Host: "dev.example.com"}
	lookup := configWith(map[string]string{
		ConfigKeyClientID: "C1",
		ConfigKeyTenantID: "T1",
	})

	cfg, err := Resolve(req, lookup, Options{})
	require.NoError(t, err)
	assert.Equal(t, "C1", cfg.ClientID)
	assert.Equal(t, "T1", cfg.TenantID)
}

func TestResolveMissingParameters(t *testing.T) {
	req := CredentialRequest{Protocol: "https", Host: "dev.example.com"}

	_, err := Resolve(req, noConfig, Options{})
	require.ErrorIs(t, err, ErrMissingIdentityParameters)

	// one parameter alone is still unresolved
	req.WWWAuth = []string{"Bearer msal-client-id=ABC"}
	_, err = Resolve(req, noConfig, Options{})
	require.ErrorIs(t, err, ErrMissingIdentityParameters)
}

func TestResolveFlags(t *testing.T) {
	req := CredentialRequest{
		Protocol: "https",
		Host:     "dev.example.com",
		WWWAuth:  []string{"Bearer msal-client-id=ABC,msal-tenant-id=XYZ"},
	}

	cfg, err := Resolve(req, noConfig, Options{DeviceCode: true, Insecure: true})
	require.NoError(t, err)
	assert.Equal(t, FlowDeviceCode, cfg.FlowMode)
	assert.Equal(t, CacheInsecure, cfg.CacheMode)
}

func TestResolveLooksUpRequestURL(t *testing.T) {
	var seenURL string
	lookup := func(url, key string) string {
		seenURL = url
		return "v"
	}
	req := CredentialRequest{Protocol: "https", Host: "dev.example.com", Path: "team/repo.git"}

	_, err := Resolve(req, lookup, Options{})
	require.NoError(t, err)
	assert.Equal(t, "https://dev.example.com/team/repo.git", seenURL)
}

func TestResolvedConfigKeys(t *testing.T) {
	cfg := ResolvedConfig{ClientID: "ABC", TenantID: "XYZ"}
	assert.Equal(t, "XYZ_ABC", cfg.CacheKey())
	assert.Equal(t, "git-credential-msal_XYZ_ABC", cfg.KeyringKey())
}
