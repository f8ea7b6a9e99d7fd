package domain

import "context"

// Turn is one conversational turn handed to the remote generator.
type Turn struct {
	Role Role
	Text string
}

// ObjectShape describes a flat JSON object of required string fields.
// It is the structured-output hint passed to the generator.
type ObjectShape struct {
	Name   string
	Fields []string
}

// GenerateOptions tunes a single generation call. Nil fields use provider defaults.
type GenerateOptions struct {
	Temperature *float32
	TopP        *float32
	Shape       *ObjectShape
}

// Generator is the remote text generation capability.
// Failures wrap ErrRemote; an empty result is also a failure.
type Generator interface {
	Generate(ctx context.Context, systemInstruction string, turns []Turn, opts GenerateOptions) (string, error)
}

// KVStore is a flat string-keyed durable store with last-write-wins semantics.
type KVStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}
