package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidmin/vidmin/internal/download"
	"github.com/vidmin/vidmin/internal/gateway"
)

// HealthHandler reports that the server is up
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "vidmin"})
}

// PingHandler answers the player's liveness probe
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, "pong")
}

// RootsHandler lists the directories the gateway serves from
func RootsHandler(g *gateway.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"scheme": g.Scheme(),
			"roots":  g.Authorizer().Roots(),
		})
	}
}

// DiagnosticsHandler reports whether the downloader binary is usable
func DiagnosticsHandler(g *gateway.Gateway, binary string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"yt_dlp": download.CheckBinary(binary),
			"scheme": g.Scheme(),
			"roots":  len(g.Authorizer().Roots()),
		})
	}
}
