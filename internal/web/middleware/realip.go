package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// proxyList is the set of networks whose forwarding headers are believed.
type proxyList []*net.IPNet

// parseProxies accepts CIDRs and bare IPs. Invalid entries are logged and skipped.
func parseProxies(entries []string) proxyList {
	var list proxyList
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}

		if _, network, err := net.ParseCIDR(e); err == nil {
			list = append(list, network)
			continue
		}

		ip := net.ParseIP(e)
		if ip == nil {
			slog.Warn("realip: invalid trusted proxy, skipping", "entry", e)
			continue
		}
		bits := 128
		if ip.To4() != nil {
			ip, bits = ip.To4(), 32
		}
		list = append(list, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
	}
	return list
}

func (l proxyList) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, n := range l {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// TrustedRealIP rewrites r.RemoteAddr from X-Real-IP or the first
// X-Forwarded-For hop, but only for connections from a trusted proxy.
// Everyone else keeps their socket address, so a client cannot dodge the
// per-IP rate limit by sending its own headers.
func TrustedRealIP(trusted []string) func(http.Handler) http.Handler {
	proxies := parseProxies(trusted)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if proxies.contains(ClientIP(r)) {
				if ip := forwardedIP(r.Header); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// forwardedIP returns the client address named by proxy headers, or nil.
func forwardedIP(h http.Header) net.IP {
	if rip := strings.TrimSpace(h.Get("X-Real-IP")); rip != "" {
		return net.ParseIP(rip)
	}
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return net.ParseIP(strings.TrimSpace(first))
	}
	return nil
}

// ClientIP parses the IP out of r.RemoteAddr, which may or may not carry a port.
func ClientIP(r *http.Request) net.IP {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(r.RemoteAddr)
}
