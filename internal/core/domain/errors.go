package domain

import "errors"

// Authentication and session errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrCorruptCredentials = errors.New("stored credentials unparseable")
)

// Backend call errors.
var (
	ErrAccessDenied       = errors.New("access denied")
	ErrBackendUnreachable = errors.New("backend unreachable")
	ErrFetchFailed        = errors.New("fetch failed after retries")
	ErrProjectNotFound    = errors.New("project not found")
)
