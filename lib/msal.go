package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	azure "github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
	jwt "github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

const (
	EntraServerGlobal  = "login.microsoftonline.com"
	EntraServerDefault = EntraServerGlobal
)

// scopes requested alongside the reserved OIDC scopes. The credential we
// hand to git is the ID token, so we only need enough to get one issued.
func scopes() []string {
	return []string{"openid", "email", "User.Read"}
}

// msalBroker implements Broker with the MSAL public client application.
type msalBroker struct {
	client azure.Client
}

// NewMSALBroker builds the broker for one resolved tenant/client pair,
// wiring the persisted token cache into the MSAL client.
func NewMSALBroker(cfg ResolvedConfig, store cache.ExportReplace) (Broker, error) {
	authority := fmt.Sprintf("https://%s/%s", EntraServerDefault, cfg.TenantID)
	log.Debugf("authority: %s", authority)

	client, err := azure.New(cfg.ClientID,
		azure.WithAuthority(authority),
		azure.WithCache(store),
	)
	if err != nil {
		return nil, xerrors.Errorf("creating MSAL client: %w", err)
	}

	return &msalBroker{client: client}, nil
}

func (b *msalBroker) AcquireSilent(ctx context.Context) (Token, error) {
	accounts, err := b.client.Accounts(ctx)
	if err != nil {
		return Token{}, xerrors.Errorf("reading cached accounts: %w", err)
	}
	if len(accounts) == 0 {
		return Token{}, ErrNoCachedAccount
	}

	result, err := b.client.AcquireTokenSilent(ctx, scopes(),
		azure.WithSilentAccount(accounts[0]),
	)
	if err != nil {
		return Token{}, xerrors.Errorf("silent token acquisition: %w", err)
	}
	return tokenFromResult(result)
}

func (b *msalBroker) AcquireInteractive(ctx context.Context) (Token, error) {
	result, err := b.client.AcquireTokenInteractive(ctx, scopes())
	if err != nil {
		return Token{}, xerrors.Errorf("interactive token acquisition: %w", err)
	}
	return tokenFromResult(result)
}

func (b *msalBroker) AcquireDeviceCode(ctx context.Context, notify func(string)) (Token, error) {
	flow, err := b.client.AcquireTokenByDeviceCode(ctx, scopes())
	if err != nil {
		return Token{}, xerrors.Errorf("initiating device code flow: %w", err)
	}

	notify(flow.Result.Message)

	// blocks, polling the token endpoint until completion, the flow's
	// expiry, or ctx cancellation
	result, err := flow.AuthenticationResult(ctx)
	if err != nil {
		return Token{}, xerrors.Errorf("device code flow: %w", err)
	}
	return tokenFromResult(result)
}

func tokenFromResult(result azure.AuthResult) (Token, error) {
	raw := result.IDToken.RawToken
	if raw == "" {
		return Token{}, xerrors.New("identity provider returned no ID token")
	}

	expiry, err := tokenExpiry(raw)
	if err != nil {
		log.Debugf("no exp claim in ID token: %v", err)
		expiry = result.ExpiresOn
	}

	return Token{
		Secret:    raw,
		Account:   result.Account.PreferredUsername,
		ExpiresOn: expiry,
	}, nil
}

// tokenExpiry pulls the exp claim out of the raw JWT. The signature is
// the server's to verify; we only read exp for the expiry hint git gets
// as password_expiry_utc.
func tokenExpiry(raw string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, xerrors.New("missing exp claim")
	}
	return claims.ExpiresAt.Time, nil
}
