package lib

import (
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// GitConfigLookup resolves one credential.* config key for a URL.
// Injected so tests do not have to shell out to git.
type GitConfigLookup func(url, key string) string

// GitConfigURLMatch asks git itself for the best-matching config value
// via `git config --get-urlmatch`. Git owns the per-URL matching rules
// (host globs, path prefixes, username discrimination), so delegating
// keeps this helper in exact agreement with git's own resolution. A
// missing key, an empty value and a missing git binary all resolve to "".
func GitConfigURLMatch(url, key string) string {
	out, err := exec.Command("git", "config", "--get-urlmatch", key, url).Output()
	if err != nil {
		log.Debugf("git config --get-urlmatch %s %s: %v", key, url, err)
		return ""
	}
	return strings.TrimSpace(string(out))
}
