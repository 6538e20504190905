package httpx

import (
	"fmt"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP resolves the address a request originated from.
//
// The direct peer (RemoteAddr) is authoritative unless it is one of the
// trusted proxies. Only then are X-Forwarded-For and X-Real-IP consulted, and
// X-Forwarded-For is walked from the right so a client cannot prepend a
// forged hop. A nil *ClientIP trusts nobody.
type ClientIP struct {
	trusted []netip.Prefix
}

// NewClientIP parses proxies as CIDR prefixes or bare addresses.
func NewClientIP(proxies []string) (*ClientIP, error) {
	c := &ClientIP{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.Contains(p, "/") {
			prefix, err := netip.ParsePrefix(p)
			if err != nil {
				return nil, fmt.Errorf("httpx: invalid trusted proxy %q: %w", p, err)
			}
			c.trusted = append(c.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(p)
		if err != nil {
			return nil, fmt.Errorf("httpx: invalid trusted proxy %q: %w", p, err)
		}
		addr = addr.Unmap()
		c.trusted = append(c.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return c, nil
}

// Resolve returns the client address for r.
func (c *ClientIP) Resolve(r *http.Request) string {
	peer, ok := peerAddr(r.RemoteAddr)
	if !ok {
		return r.RemoteAddr
	}
	if !c.trusts(peer) {
		return peer.String()
	}

	if hops := forwardedHops(r.Header.Values("X-Forwarded-For")); len(hops) > 0 {
		for i := len(hops) - 1; i >= 0; i-- {
			addr, err := netip.ParseAddr(hops[i])
			if err != nil {
				return peer.String()
			}
			addr = addr.Unmap()
			if !c.trusts(addr) || i == 0 {
				return addr.String()
			}
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.Unmap().String()
		}
	}
	return peer.String()
}

// Key adapts Resolve to a KeyFunc.
func (c *ClientIP) Key() KeyFunc {
	return c.Resolve
}

func (c *ClientIP) trusts(addr netip.Addr) bool {
	if c == nil {
		return false
	}
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func peerAddr(remote string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap(), true
	}
	if addr, err := netip.ParseAddr(remote); err == nil {
		return addr.Unmap(), true
	}
	return netip.Addr{}, false
}

// forwardedHops flattens repeated X-Forwarded-For headers into one ordered list.
func forwardedHops(values []string) []string {
	var hops []string
	for _, v := range values {
		for _, h := range strings.Split(v, ",") {
			if h = strings.TrimSpace(h); h != "" {
				hops = append(hops, h)
			}
		}
	}
	return hops
}
