package gateway

import "errors"

var (
	// ErrBadRequest means the request URL could not be decoded.
	ErrBadRequest = errors.New("bad request")
	// ErrForbidden means the path is outside every allowed root.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound means the path does not exist or is not a regular file.
	ErrNotFound = errors.New("not found")
	// ErrRangeNotSatisfiable means the range lies outside the file.
	ErrRangeNotSatisfiable = errors.New("range not satisfiable")
	// ErrUnparsableRange means the Range header is not a single bytes range.
	ErrUnparsableRange = errors.New("unparsable range")
)
