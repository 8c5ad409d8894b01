package lib

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// DecodeRequest reads one git credential request from r. The stream is
// newline-delimited key=value pairs terminated by a blank line or EOF.
// A key ending in [] is multi-valued and order-preserving; per the
// git-credential man page an empty multi-valued assignment clears any
// previous values. Other keys are last-write-wins. Unrecognized keys are
// ignored. A line without = fails with ErrMalformedInput.
func DecodeRequest(r io.Reader) (CredentialRequest, error) {
	var req CredentialRequest

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			return CredentialRequest{}, xerrors.Errorf("credential attribute %q: %w", line, ErrMalformedInput)
		}
		key, value := line[:idx], line[idx+1:]

		if strings.HasSuffix(key, "[]") {
			key = strings.TrimSuffix(key, "[]")
			switch key {
			case "wwwauth":
				if value == "" {
					req.WWWAuth = nil
				} else {
					req.WWWAuth = append(req.WWWAuth, value)
				}
			case "capability":
				if value == "" {
					req.Capability = nil
				} else {
					req.Capability = append(req.Capability, value)
				}
			}
			continue
		}

		switch key {
		case "protocol":
			req.Protocol = value
		case "host":
			req.Host = value
		case "path":
			req.Path = value
		case "username":
			req.Username = value
		case "password":
			req.Password = value
		}
	}
	if err := scanner.Err(); err != nil {
		return CredentialRequest{}, xerrors.Errorf("reading credential request: %w", err)
	}

	return req, nil
}

// EncodeResponse writes resp to w in the credential protocol wire form,
// always ending with the terminating blank line. A zero response encodes
// to just that blank line.
func EncodeResponse(w io.Writer, resp CredentialResponse) error {
	var b strings.Builder
	for _, c := range resp.Capability {
		fmt.Fprintf(&b, "capability[]=%s\n", c)
	}
	writeAttr(&b, "authtype", resp.AuthType)
	writeAttr(&b, "credential", resp.Credential)
	writeAttr(&b, "username", resp.Username)
	writeAttr(&b, "password", resp.Password)
	if resp.ExpiryUTC != 0 {
		writeAttr(&b, "password_expiry_utc", strconv.FormatInt(resp.ExpiryUTC, 10))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeAttr(b *strings.Builder, key, value string) {
	if value == "" {
		return
	}
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteByte('\n')
}
