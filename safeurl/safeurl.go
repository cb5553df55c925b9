// Package safeurl validates caller-supplied URLs before the broker
// redirects to them or stores them.
package safeurl

import (
	"fmt"
	"net/url"
	"strings"
)

// EnsureSafeRedirect returns target unchanged when it is safe to redirect
// to, or "" otherwise. A target is rejected when it is not an absolute
// http(s) URL, or when its host equals or is a subdomain of base's host,
// which would let the broker be used as an open-redirect relay back into
// itself. base may be empty to skip the host check.
//
// The function is total: any input, however malformed, yields accept or
// reject, never an error.
func EnsureSafeRedirect(target, base string) string {
	if target == "" {
		return ""
	}

	u, err := url.Parse(target)
	if err != nil || !u.IsAbs() {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}

	if base != "" {
		b, err := url.Parse(base)
		if err == nil && b.Hostname() != "" {
			host := u.Hostname()
			if host == b.Hostname() || strings.HasSuffix(host, "."+b.Hostname()) {
				return ""
			}
		}
	}

	return target
}

// NormalizeBlogHost turns user input like "myblog.com" into an origin
// such as "https://myblog.com". The scheme defaults to https when absent.
func NormalizeBlogHost(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("blog URL is required")
	}

	withProtocol := trimmed
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		withProtocol = "https://" + trimmed
	}

	u, err := url.Parse(withProtocol)
	if err != nil {
		return "", fmt.Errorf("invalid blog URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("blog URL must be http or https")
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("blog URL is missing a host")
	}

	return u.Scheme + "://" + u.Host, nil
}
