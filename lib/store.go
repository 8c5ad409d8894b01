package lib

import (
	"context"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// CacheStore persists the broker's serialized token cache for one
// account. The ExportReplace half plugs straight into the MSAL client,
// which calls Replace before and Export after every acquisition, so a
// successful flow persists itself. Erase serves the credential protocol
// erase action.
type CacheStore interface {
	cache.ExportReplace
	Erase(ctx context.Context) error
}

// OpenStore selects the persistence backend for the resolved account.
// Secure mode requires an OS keyring; its absence is a configuration
// error, never a silent downgrade. Insecure mode is the explicit opt-in
// to a plaintext file under the user cache directory.
func OpenStore(cfg ResolvedConfig, backend string) (CacheStore, error) {
	if cfg.CacheMode == CacheInsecure {
		dir, err := InsecureCacheDir()
		if err != nil {
			return nil, xerrors.Errorf("locating cache directory: %w", err)
		}
		path := filepath.Join(dir, "msal_cache_"+cfg.CacheKey())
		log.Warnf("insecure mode: tokens will be cached in plaintext at %s", path)
		return &fileStore{path: path}, nil
	}

	kr, err := OpenKeyring(allowedBackends(backend))
	if err != nil {
		return nil, xerrors.Errorf("opening keyring: %v: %w", err, ErrSecretStoreUnavailable)
	}
	return &keyringStore{kr: kr, key: cfg.KeyringKey()}, nil
}

// InsecureCacheDir is the plaintext cache location,
// $XDG_CACHE_HOME/git-credential-msal or ~/.cache/git-credential-msal.
func InsecureCacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "git-credential-msal"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "git-credential-msal"), nil
}

// keyringStore keeps the serialized cache as a single secret-store item.
// Cross-process atomicity is the keyring's problem; last-writer-wins is
// fine because tokens are idempotently refreshable.
type keyringStore struct {
	kr  keyring.Keyring
	key string
}

func (s *keyringStore) Replace(ctx context.Context, c cache.Unmarshaler, _ cache.ReplaceHints) error {
	item, err := s.kr.Get(s.key)
	if err == keyring.ErrKeyNotFound {
		return nil
	}
	if err != nil {
		// an unreadable cache is an empty cache, not a failed acquisition
		log.Warnf("reading token cache from keyring: %v", err)
		return nil
	}
	return c.Unmarshal(item.Data)
}

func (s *keyringStore) Export(ctx context.Context, c cache.Marshaler, _ cache.ExportHints) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	err = s.kr.Set(keyring.Item{
		Key:   s.key,
		Data:  data,
		Label: "git-credential-msal token cache",
	})
	if err != nil {
		// the token in hand is still good; losing the cache write only
		// costs a re-auth next time
		log.Warnf("writing token cache to keyring: %v", err)
	}
	return nil
}

func (s *keyringStore) Erase(ctx context.Context) error {
	err := s.kr.Remove(s.key)
	if err == keyring.ErrKeyNotFound {
		return nil
	}
	return err
}

// fileStore is the plaintext-at-rest degraded store.
type fileStore struct {
	path string
}

func (s *fileStore) Replace(ctx context.Context, c cache.Unmarshaler, _ cache.ReplaceHints) error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		log.Warnf("reading token cache %s: %v", s.path, err)
		return nil
	}
	return c.Unmarshal(data)
}

func (s *fileStore) Export(ctx context.Context, c cache.Marshaler, _ cache.ExportHints) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *fileStore) Erase(ctx context.Context) error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
