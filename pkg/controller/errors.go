package controller

import "errors"

var (
	// ErrNilAPI is the panic value of New when no API is supplied.
	ErrNilAPI = errors.New("controller: api is required")
	// ErrNilUI is the panic value of New when no UI is supplied.
	ErrNilUI = errors.New("controller: ui is required")
	// ErrReloadFailed wraps a list reload failure that follows a successful
	// create, update or delete. The change itself was applied.
	ErrReloadFailed = errors.New("controller: reload after change")
)
