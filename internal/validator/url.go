// Package validator checks user-submitted URLs before they are shortened.
package validator

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidURL is returned for any string that is not a well-formed absolute URL.
var ErrInvalidURL = errors.New("Invalid URL format")

// Schemes that must carry an authority component with a host.
var specialSchemes = map[string]struct{}{
	"http":  {},
	"https": {},
	"ws":    {},
	"wss":   {},
	"ftp":   {},
}

// ValidateURL reports whether candidate is a syntactically valid absolute URL.
// Reachability is not checked and any scheme is allowed.
func ValidateURL(candidate string) error {
	if candidate == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidURL, reason(err))
	}

	if u.Scheme == "" {
		return fmt.Errorf("%w: missing scheme", ErrInvalidURL)
	}

	if _, ok := specialSchemes[u.Scheme]; ok && u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	if port := u.Port(); port != "" {
		if _, err := strconv.ParseUint(port, 10, 16); err != nil {
			return fmt.Errorf("%w: port out of range", ErrInvalidURL)
		}
	}

	if host := u.Hostname(); dottedQuad(host) && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: invalid IPv4 address", ErrInvalidURL)
	}

	return nil
}

// dottedQuad reports whether host looks like an IPv4 address (four numeric labels).
func dottedQuad(host string) bool {
	if strings.Count(host, ".") != 3 {
		return false
	}
	for _, c := range host {
		if c != '.' && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// reason drops the quoted input from url.Error so it is not reflected back.
func reason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err.Error()
	}
	return err.Error()
}
