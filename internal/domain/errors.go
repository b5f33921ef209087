package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCatalogLoad is returned when the on-disk catalog cannot be loaded
	ErrCatalogLoad = errors.New("catalog load failed")

	// ErrCompletionFailure is returned when the language-model call fails
	ErrCompletionFailure = errors.New("completion request failed")

	// ErrGraphUnavailable is returned when the graph database cannot be reached
	ErrGraphUnavailable = errors.New("graph database unavailable")

	// ErrSessionNotFound is returned when a session id has no stored turns
	ErrSessionNotFound = errors.New("session not found")
)
