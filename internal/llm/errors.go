package llm

import "errors"

var (
	// ErrConfiguration indicates a required credential or setting is missing.
	// The request never reaches the provider.
	ErrConfiguration = errors.New("llm configuration error")

	// ErrUpstream indicates the provider returned a non-success status or a
	// payload that could not be parsed.
	ErrUpstream = errors.New("upstream generation error")

	// ErrTimeout indicates the generation call exceeded its deadline.
	ErrTimeout = errors.New("generation timed out")

	// ErrCancelled indicates the caller went away before generation finished.
	ErrCancelled = errors.New("generation cancelled")

	// ErrUnknownTier indicates an unrecognized model tier string.
	ErrUnknownTier = errors.New("unknown model tier")
)
