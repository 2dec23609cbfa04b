package auth

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// TrustedProxies decides whether forwarding headers on a request are
// believed. Only peers inside one of the prefixes may set them.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// NewTrustedProxies parses CIDRs or bare addresses. An empty list trusts
// no peer, so the connection address is always used.
func NewTrustedProxies(entries []string) (*TrustedProxies, error) {
	t := &TrustedProxies{}
	for _, raw := range entries {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
			}
			t.prefixes = append(t.prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		t.prefixes = append(t.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return t, nil
}

func (t *TrustedProxies) trusts(remoteAddr string) bool {
	addr, err := netip.ParseAddr(peerHost(remoteAddr))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range t.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Middleware rewrites RemoteAddr from True-Client-IP, X-Real-IP or
// X-Forwarded-For, but only for requests arriving from a trusted proxy.
func (t *TrustedProxies) Middleware(next http.Handler) http.Handler {
	realIP := chimiddleware.RealIP(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.trusts(r.RemoteAddr) {
			realIP.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the request's client address. Forwarding headers count
// only once TrustedProxies.Middleware has accepted them.
func ClientIP(r *http.Request) string {
	host := peerHost(r.RemoteAddr)
	if net.ParseIP(host) == nil {
		return "unknown"
	}
	return host
}

func peerHost(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return strings.TrimSpace(remoteAddr)
}
