// SPDX-License-Identifier: MIT
package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vidmin/vidmin/internal/gateway"
	"github.com/vidmin/vidmin/internal/library"
	"github.com/vidmin/vidmin/internal/media"
	"github.com/vidmin/vidmin/internal/models"
)

type metadataResponse struct {
	*media.Metadata
	URL string `json:"url"`
}

type historyEntry struct {
	models.MediaFile
	URL string `json:"url"`
}

// MetadataHandler probes a local file and records it in the history. The
// file is confined to the same roots as the gateway.
func MetadataHandler(g *gateway.Gateway, store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("path")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "path required"})
			return
		}
		path := filepath.Clean(raw)

		auth := g.Authorizer()
		if !auth.Allowed(path) {
			c.JSON(http.StatusForbidden, gin.H{"error": "path outside allowed directories"})
			return
		}

		resolved, _, err := gateway.ResolveFile(path)
		if errors.Is(err, gateway.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve file"})
			return
		}
		if !auth.AllowedReal(resolved) {
			c.JSON(http.StatusForbidden, gin.H{"error": "path outside allowed directories"})
			return
		}

		meta, err := media.Probe(path)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read metadata"})
			return
		}

		if store != nil {
			if _, err := store.RecordOpen(meta); err != nil {
				// history is best effort
				_ = c.Error(err)
			}
		}

		c.JSON(http.StatusOK, metadataResponse{
			Metadata: meta,
			URL:      media.FileURL(g.Scheme(), path),
		})
	}
}

// RecentHandler lists recently opened files, newest first
func RecentHandler(g *gateway.Gateway, store *library.Store, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultLimit
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}

		files, err := store.Recent(limit)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		entries := make([]historyEntry, len(files))
		for i, f := range files {
			entries[i] = historyEntry{MediaFile: f, URL: media.FileURL(g.Scheme(), f.Path)}
		}
		c.JSON(http.StatusOK, gin.H{"files": entries})
	}
}

// ClearRecentHandler empties the history
func ClearRecentHandler(store *library.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Clear(); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
