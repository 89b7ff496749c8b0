package gateway

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler bridges HTTP requests under mount (e.g. "/media") onto the custom
// scheme. The escaped request path is kept as-is so that decoding happens
// exactly once, in DecodeURL.
func (g *Gateway) Handler(mount string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rest := strings.TrimPrefix(c.Request.URL.EscapedPath(), mount)

		resp := g.Serve(ServeRequest{
			URL:    g.scheme + ":" + rest,
			Range:  c.GetHeader("Range"),
			Method: c.Request.Method,
		})
		g.Write(c.Writer, resp)
	}
}

// Write emits resp on w and releases the file handle on every path. Once the
// body has started, a failed copy means the client went away; the stream is
// abandoned and the transport closes the connection.
func (g *Gateway) Write(w http.ResponseWriter, resp *ServeResponse) {
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	h := w.Header()
	for k, vs := range resp.Header {
		h[k] = vs
	}
	w.WriteHeader(resp.Status)

	if resp.Body == nil {
		return
	}

	if n, err := io.Copy(w, resp.Body); err != nil {
		g.log.Debug("stream aborted", "bytes", n, "error", err)
	}
}
