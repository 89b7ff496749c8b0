// Package gateway serves local media files to the playback surface over a
// custom URI scheme with HTTP byte-range semantics, confined to a fixed set
// of allowed directories.
package gateway

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/vidmin/vidmin/internal/media"
)

// DefaultScheme is the URI scheme the player uses for local files.
const DefaultScheme = "vidmin"

// ServeRequest is one inbound media request.
type ServeRequest struct {
	URL    string
	Range  string
	Method string
}

// ServeResponse is the outcome of a request. Body is nil for bodiless
// responses; otherwise the caller must Close it.
type ServeResponse struct {
	Status int
	Header http.Header
	Body   io.ReadCloser
}

// Gateway answers media requests. It holds only immutable state and is safe
// for concurrent use.
type Gateway struct {
	scheme string
	auth   *Authorizer
	log    hclog.Logger
}

// Option configures a Gateway.
type Option func(*gatewayOptions)

type gatewayOptions struct {
	scheme          string
	logger          hclog.Logger
	caseInsensitive bool
}

// WithScheme overrides the URI scheme.
func WithScheme(scheme string) Option {
	return func(o *gatewayOptions) { o.scheme = scheme }
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(o *gatewayOptions) { o.logger = l }
}

// WithCaseInsensitive forces case-folded root matching on or off.
func WithCaseInsensitive(ci bool) Option {
	return func(o *gatewayOptions) { o.caseInsensitive = ci }
}

// New builds the gateway from the allowed roots. It is the one-time
// initialization step and must run before any request is accepted.
func New(roots []string, opts ...Option) (*Gateway, error) {
	o := gatewayOptions{
		scheme:          DefaultScheme,
		logger:          hclog.NewNullLogger(),
		caseInsensitive: CaseInsensitiveFS(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scheme == "" {
		return nil, fmt.Errorf("scheme must not be empty")
	}

	auth, err := NewAuthorizer(roots, o.caseInsensitive)
	if err != nil {
		return nil, err
	}

	return &Gateway{
		scheme: o.scheme,
		auth:   auth,
		log:    o.logger,
	}, nil
}

// Scheme returns the URI scheme handled by the gateway.
func (g *Gateway) Scheme() string {
	return g.scheme
}

// Authorizer exposes the path authorizer so other components can apply the
// same confinement.
func (g *Gateway) Authorizer() *Authorizer {
	return g.auth
}

// Serve runs one request through decode, authorize, resolve and range
// selection, and returns a response whose body streams from the file.
// It never panics on bad input; every outcome is a well-formed response.
func (g *Gateway) Serve(req ServeRequest) *ServeResponse {
	g.log.Debug("request", "url", req.URL, "range", req.Range)

	decoded, err := DecodeURL(g.scheme, req.URL)
	if err != nil {
		g.log.Warn("undecodable url", "url", req.URL, "error", err)
		return statusOnly(http.StatusBadRequest)
	}
	path := nativePath(decoded)

	if !g.auth.Allowed(path) {
		g.log.Warn("access denied", "path", path, "allowed", g.auth.Roots())
		return statusOnly(http.StatusForbidden)
	}

	resolved, info, err := ResolveFile(path)
	switch {
	case errors.Is(err, ErrNotFound):
		g.log.Info("file not found", "path", path)
		return statusOnly(http.StatusNotFound)
	case err != nil:
		g.log.Error("resolve failed", "path", path, "error", err)
		return internalError(err)
	}
	if resolved != path {
		g.log.Debug("resolved real path", "path", resolved)
	}

	if !g.auth.AllowedReal(resolved) {
		g.log.Warn("real path escapes allowed roots", "path", path, "real", resolved)
		return statusOnly(http.StatusForbidden)
	}

	size := info.Size()
	window, partial := FullRange(size), false
	if req.Range != "" {
		r, err := ParseRange(req.Range, size)
		switch {
		case errors.Is(err, ErrRangeNotSatisfiable):
			g.log.Info("range not satisfiable", "range", req.Range, "size", size)
			resp := statusOnly(http.StatusRequestedRangeNotSatisfiable)
			resp.Header.Set("Content-Range", "bytes */"+strconv.FormatInt(size, 10))
			return resp
		case errors.Is(err, ErrUnparsableRange):
			// Only single ranges are honored; anything else gets the whole file.
			g.log.Debug("ignoring unsupported range", "range", req.Range)
		case err == nil:
			window, partial = r, true
		}
	}

	header := http.Header{}
	header.Set("Accept-Ranges", "bytes")
	header.Set("Content-Length", strconv.FormatInt(window.Length(), 10))
	header.Set("Content-Type", media.MimeType(resolved))
	header.Set("Cache-Control", "no-cache")

	status := http.StatusOK
	if partial {
		status = http.StatusPartialContent
		header.Set("Content-Range", window.ContentRange(size))
		g.log.Debug("range request", "start", window.Start, "end", window.End, "chunk", window.Length(), "size", size)
	} else {
		g.log.Debug("full file request", "size", size, "mime", header.Get("Content-Type"))
	}

	resp := &ServeResponse{Status: status, Header: header}
	if req.Method == http.MethodHead {
		return resp
	}

	body, err := openRange(resolved, window)
	if err != nil {
		g.log.Error("error serving file", "path", resolved, "error", err)
		return internalError(err)
	}
	resp.Body = body
	return resp
}

// fileBody streams a window of an open file and owns the handle.
type fileBody struct {
	io.Reader
	f *os.File
}

func (b *fileBody) Close() error {
	return b.f.Close()
}

func openRange(path string, window ByteRange) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if window.Start > 0 {
		if _, err := f.Seek(window.Start, io.SeekStart); err != nil {
			f.Close()
			return nil, err
		}
	}
	return &fileBody{Reader: io.LimitReader(f, window.Length()), f: f}, nil
}

func statusOnly(status int) *ServeResponse {
	return &ServeResponse{Status: status, Header: http.Header{}}
}

func internalError(err error) *ServeResponse {
	msg := "Internal server error: " + err.Error()
	h := http.Header{}
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(msg)))
	return &ServeResponse{
		Status: http.StatusInternalServerError,
		Header: h,
		Body:   io.NopCloser(strings.NewReader(msg)),
	}
}
