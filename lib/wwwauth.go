package lib

import "strings"

// Auth-params Entra servers advertise on their Bearer challenge, e.g.
// WWW-Authenticate: Bearer msal-client-id=...,msal-tenant-id=...
const (
	ParamClientID = "msal-client-id"
	ParamTenantID = "msal-tenant-id"
)

// IsBearer reports whether the challenge scheme is Bearer. Scheme names
// are case-insensitive per RFC 7235.
func (c AuthChallenge) IsBearer() bool {
	return strings.EqualFold(c.Scheme, "Bearer")
}

// Param returns the value of the named auth-param, case-insensitively.
func (c AuthChallenge) Param(name string) (string, bool) {
	for _, p := range c.Params {
		if strings.EqualFold(p.Key, name) {
			return p.Value, true
		}
	}
	return "", false
}

// ParseChallenges parses an ordered sequence of WWW-Authenticate values
// into challenges, preserving order. Challenges are advisory: one that
// does not parse is dropped silently rather than failing the helper.
func ParseChallenges(values []string) []AuthChallenge {
	var challenges []AuthChallenge
	for _, v := range values {
		if c, ok := parseChallenge(v); ok {
			challenges = append(challenges, c)
		}
	}
	return challenges
}

func parseChallenge(value string) (AuthChallenge, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return AuthChallenge{}, false
	}

	scheme, rest, _ := strings.Cut(value, " ")
	if strings.ContainsAny(scheme, ",=") {
		// a lone auth-param is not a challenge
		return AuthChallenge{}, false
	}
	c := AuthChallenge{Scheme: scheme}

	for _, part := range splitParams(rest) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, raw, found := strings.Cut(part, "=")
		if !found || key == "" {
			return AuthChallenge{}, false
		}
		c.Params = append(c.Params, ChallengeParam{
			Key:   strings.TrimSpace(key),
			Value: unquote(raw),
		})
	}

	return c, true
}

// splitParams splits an auth-param list on commas, keeping commas inside
// quoted-strings intact.
func splitParams(s string) []string {
	var (
		parts    []string
		start    int
		inQuotes bool
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			if inQuotes && i > 0 && s[i-1] == '\\' {
				continue
			}
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`)
	}
	return s
}

// firstBearerChallenge returns the first Bearer challenge carrying at
// least one of the Entra auth-params. Later challenges are ignored even
// if they carry more parameters.
func firstBearerChallenge(challenges []AuthChallenge) (AuthChallenge, bool) {
	for _, c := range challenges {
		if !c.IsBearer() {
			continue
		}
		if _, ok := c.Param(ParamClientID); ok {
			return c, true
		}
		if _, ok := c.Param(ParamTenantID); ok {
			return c, true
		}
	}
	return AuthChallenge{}, false
}
