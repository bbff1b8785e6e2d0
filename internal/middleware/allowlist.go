package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
)

// IPAllowList admits loopback clients plus the listed addresses and CIDR
// ranges. An empty list admits everyone.
type IPAllowList struct {
	prefixes []netip.Prefix
}

// NewIPAllowList parses entries such as "10.0.0.5" or "192.168.0.0/16"
func NewIPAllowList(entries []string) (*IPAllowList, error) {
	al := &IPAllowList{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("allowed ip %q: %w", entry, err)
			}
			al.prefixes = append(al.prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("allowed ip %q: %w", entry, err)
		}
		al.prefixes = append(al.prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return al, nil
}

// Allows reports whether the client address (optionally host:port) may connect
func (al *IPAllowList) Allows(remote string) bool {
	if len(al.prefixes) == 0 {
		return true
	}
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	addr, err := netip.ParseAddr(remote)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	if addr.IsLoopback() {
		return true
	}
	for _, p := range al.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// IPAllowListMiddleware answers 403 to clients outside the list
func IPAllowListMiddleware(al *IPAllowList, security *SecurityLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !al.Allows(ip) {
			security.LogAccessDenied(ip)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "access denied"})
			return
		}
		c.Next()
	}
}
