package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientKey returns the rate limit key for r.
//
// With trustedHops == 0 the key is the host part of RemoteAddr. With n > 0
// the key is the n-th X-Forwarded-For entry counted from the right, clamped
// to the leftmost entry. Missing or non-IP entries fall back to RemoteAddr.
func ClientKey(r *http.Request, trustedHops int) string {
	remote := remoteHost(r.RemoteAddr)
	if trustedHops <= 0 {
		return remote
	}

	entries := forwardedFor(r.Header)
	if len(entries) == 0 {
		return remote
	}

	idx := len(entries) - trustedHops
	if idx < 0 {
		idx = 0
	}
	ip := net.ParseIP(entries[idx])
	if ip == nil {
		return remote
	}
	return ip.String()
}

// forwardedFor flattens every X-Forwarded-For header into a single list.
func forwardedFor(h http.Header) []string {
	var entries []string
	for _, v := range h.Values("X-Forwarded-For") {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				entries = append(entries, part)
			}
		}
	}
	return entries
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
