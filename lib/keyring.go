package lib

import (
	"os"

	"github.com/99designs/keyring"
)

// Passphrase for the keyring file backend when one is forced with
// --backend file. Helpers run as git subprocesses with stdin already
// consumed by the credential protocol, so an interactive prompt is not
// an option here.
const envFilePassphrase = "GIT_CREDENTIAL_MSAL_FILE_PASSPHRASE"

func OpenKeyring(allowedBackends []keyring.BackendType) (kr keyring.Keyring, err error) {
	kr, err = keyring.Open(keyring.Config{
		AllowedBackends:          allowedBackends,
		KeychainTrustApplication: true,
		ServiceName:              "git-credential-msal",
		LibSecretCollectionName:  "login",
		FileDir:                  "~/.git-credential-msal/",
		FilePasswordFunc:         keyring.FixedStringPrompt(os.Getenv(envFilePassphrase)),
	})

	return
}

// allowedBackends narrows the keyring to the forced backend if one was
// given. Otherwise every platform backend except the file backend
// qualifies as a secure store; plaintext-at-rest is only reachable
// through the explicit --insecure opt-in.
func allowedBackends(backend string) []keyring.BackendType {
	if backend != "" {
		return []keyring.BackendType{keyring.BackendType(backend)}
	}

	var backends []keyring.BackendType
	for _, b := range keyring.AvailableBackends() {
		if b == keyring.FileBackend {
			continue
		}
		backends = append(backends, b)
	}
	return backends
}
