package core

import "errors"

// Summarizer failure kinds. Provider clients wrap exactly one of these so
// callers can branch with errors.Is without knowing the provider.
var (
	ErrAuth            = errors.New("summarizer: authentication failed")
	ErrTimeout         = errors.New("summarizer: request timed out")
	ErrRateLimited     = errors.New("summarizer: rate limited")
	ErrUpstream        = errors.New("summarizer: upstream error")
	ErrEmptyCompletion = errors.New("summarizer: empty completion")
)
