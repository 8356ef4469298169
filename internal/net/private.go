// Package net provides networking utilities for ytdl.
package net

import (
	"net"
	"net/url"
	"strings"
	logging "ytdl/internal/utils/logging"
)

// IsPrivateNetwork returns true if the host (or URL) points at a LAN address.
func IsPrivateNetwork(host string) bool {
	h := hostOnly(host)
	if strings.EqualFold(h, "localhost") {
		return true
	}

	ip := net.ParseIP(h)
	if ip == nil {
		return isPrivateByLookup(h)
	}
	return isPrivateIP(ip)
}

// hostOnly strips scheme, port and path from host.
func hostOnly(host string) string {
	if strings.Contains(host, "://") {
		if u, err := url.Parse(host); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return strings.Trim(h, "[]")
	}
	return strings.Trim(host, "[]")
}

// isPrivateIP covers RFC 1918, ULA, loopback and link-local ranges.
func isPrivateIP(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast()
}

// isPrivateByLookup resolves a hostname and reports whether any address is private.
func isPrivateByLookup(h string) bool {
	ips, err := net.LookupIP(h)
	if err != nil {
		logging.D(1, "Failed to resolve hostname %q: %v", h, err)
		return false
	}
	for _, ip := range ips {
		if isPrivateIP(ip) {
			logging.D(2, "Host %q resolved to private IP address %q", h, ip)
			return true
		}
	}
	logging.D(2, "Host %q resolved to public IP addresses %v", h, ips)
	return false
}
