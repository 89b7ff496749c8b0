// SPDX-License-Identifier: MIT
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vidmin/vidmin/internal/download"
)

// FormatsHandler lists the formats yt-dlp offers for a URL
func FormatsHandler(m *download.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		formats, err := m.FetchFormats(c.Request.Context(), c.Query("url"), c.Query("cookies_from_browser"))
		if errors.Is(err, download.ErrInvalidURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch formats"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"formats": formats})
	}
}

// StartDownloadHandler launches a download and returns its id
func StartDownloadHandler(m *download.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var opts download.Options
		if err := c.ShouldBindJSON(&opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		id, err := m.Start(opts)
		switch {
		case errors.Is(err, download.ErrInvalidURL):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid url"})
			return
		case errors.Is(err, download.ErrOutsideRoots):
			c.JSON(http.StatusForbidden, gin.H{"error": "output directory outside allowed directories"})
			return
		case err != nil:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start download"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{"id": id})
	}
}

// ListDownloadsHandler returns every known download
func ListDownloadsHandler(m *download.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"downloads": m.All()})
	}
}

// ActiveDownloadsHandler returns pending and running downloads
func ActiveDownloadsHandler(m *download.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"downloads": m.Active()})
	}
}

// GetDownloadHandler returns one download
func GetDownloadHandler(m *download.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, ok := m.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "download not found"})
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// CancelDownloadHandler stops a running download
func CancelDownloadHandler(m *download.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := m.Cancel(c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "download not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"canceled": true})
	}
}
