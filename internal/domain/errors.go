package domain

import "errors"

var (
	// ErrRemote marks a failed generation call (network, quota, service side).
	ErrRemote = errors.New("remote generation failed")
	// ErrMalformedResponse marks a structured reply that does not match its shape.
	ErrMalformedResponse = errors.New("malformed structured response")
	// ErrStorageCorruption marks a stored record that cannot be decoded.
	ErrStorageCorruption = errors.New("stored record is corrupted")

	ErrUnknownPersona = errors.New("unknown persona")
	ErrUnknownMood    = errors.New("unknown mood")
	ErrEmptyHistory   = errors.New("chat history is empty")
)
