package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// LocalOnlyMiddleware rejects every request whose peer is not loopback or
// inside one of the extra CIDR ranges. Forwarding headers are ignored since
// the gateway is never meant to sit behind a proxy.
func LocalOnlyMiddleware(extraAllowed []string) gin.HandlerFunc {
	allowedCIDRs := make([]*net.IPNet, 0, len(extraAllowed))
	for _, cidr := range extraAllowed {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err == nil {
			allowedCIDRs = append(allowedCIDRs, ipNet)
		}
	}

	return func(c *gin.Context) {
		clientIP := extractIP(c)
		if clientIP == nil {
			c.AbortWithStatus(403)
			return
		}

		if clientIP.IsLoopback() {
			c.Next()
			return
		}

		for _, ipNet := range allowedCIDRs {
			if ipNet.Contains(clientIP) {
				c.Next()
				return
			}
		}

		c.AbortWithStatus(403)
	}
}

// extractIP returns the peer address of the connection
func extractIP(c *gin.Context) net.IP {
	// Use SplitHostPort to properly handle IPv6 addresses with brackets
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		// If no port, use the whole string
		host = c.Request.RemoteAddr
	}

	return net.ParseIP(host)
}
