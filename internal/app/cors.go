package app

import (
	"net/url"
	"strings"
)

// originHost strips the scheme from an origin value, leaving "host[:port]".
// Values that do not parse as URLs are matched as-is.
func originHost(origin string) string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return origin
	}
	return u.Host
}

// originAllowed matches a request host against one configured pattern.
// "*.example.com" allows any subdomain and "localhost:*" allows any port.
func originAllowed(pattern, host string) bool {
	switch {
	case pattern == host:
		return true
	case strings.HasPrefix(pattern, "*."):
		return strings.HasSuffix(host, pattern[1:])
	case strings.HasSuffix(pattern, ":*"):
		return strings.HasPrefix(host, strings.TrimSuffix(pattern, "*"))
	}
	return false
}
