// Package fetcher downloads webpages and reduces them to plain article text.
package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"digestbot/internal/usecase/extract"
)

// validateURL rejects URLs that are not http(s) and, when denyPrivateIPs is set,
// hosts that resolve to loopback, private or link-local addresses.
func validateURL(ctx context.Context, urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", extract.ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", extract.ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", extract.ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", extract.ErrInvalidURL, hostname, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip.IP) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", extract.ErrPrivateIP, hostname, ip.IP.String())
		}
	}

	return nil
}

// isPrivateIP reports loopback (127.0.0.0/8, ::1), private (RFC 1918, fc00::/7)
// and link-local (169.254.0.0/16, fe80::/10) addresses.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
