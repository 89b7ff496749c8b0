package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/vidmin/vidmin/internal/download"
	"github.com/vidmin/vidmin/internal/gateway"
	"github.com/vidmin/vidmin/internal/library"
	"github.com/vidmin/vidmin/internal/middleware"
)

// MediaMount is where the gateway is exposed over HTTP.
const MediaMount = "/media"

// Deps are the components the router wires together.
type Deps struct {
	Gateway      *gateway.Gateway
	Library      *library.Store
	Downloads    *download.Manager
	Binary       string
	HistoryLimit int
	RateLimiter  *middleware.RateLimiter
	AllowedCIDRs []string
	Logger       hclog.Logger
}

// NewRouter builds the HTTP surface: the media gateway and the JSON API.
func NewRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.LocalOnlyMiddleware(d.AllowedCIDRs))

	r.GET("/health", HealthHandler)

	mediaGroup := r.Group(MediaMount)
	mediaGroup.Use(middleware.MediaHeadersMiddleware())
	{
		serve := d.Gateway.Handler(MediaMount)
		mediaGroup.GET("/*filepath", serve)
		mediaGroup.HEAD("/*filepath", serve)
		mediaGroup.OPTIONS("/*filepath", func(c *gin.Context) {})
	}

	api := r.Group("/api")
	api.Use(middleware.APIHeadersMiddleware())
	{
		api.GET("/ping", PingHandler)
		api.GET("/roots", RootsHandler(d.Gateway))
		api.GET("/diagnostics", DiagnosticsHandler(d.Gateway, d.Binary))

		if d.Library != nil {
			api.GET("/media/metadata", MetadataHandler(d.Gateway, d.Library))
			api.GET("/media/recent", RecentHandler(d.Gateway, d.Library, d.HistoryLimit))
			api.DELETE("/media/recent", ClearRecentHandler(d.Library))
		} else {
			api.GET("/media/metadata", MetadataHandler(d.Gateway, nil))
		}

		if d.Downloads != nil {
			dl := api.Group("/downloads")
			dl.GET("/formats", FormatsHandler(d.Downloads))
			if d.RateLimiter != nil {
				dl.POST("", middleware.RateLimitMiddleware(d.RateLimiter), StartDownloadHandler(d.Downloads))
			} else {
				dl.POST("", StartDownloadHandler(d.Downloads))
			}
			dl.GET("", ListDownloadsHandler(d.Downloads))
			dl.GET("/active", ActiveDownloadsHandler(d.Downloads))
			dl.GET("/:id", GetDownloadHandler(d.Downloads))
			dl.POST("/:id/cancel", CancelDownloadHandler(d.Downloads))
		}
	}

	return r
}
