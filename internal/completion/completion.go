// Package completion defines the text-completion capability used for page
// selection and fact extraction, plus helpers for digging JSON out of the
// free text it returns.
package completion

import "context"

// Prompt is one completion request.
type Prompt struct {
	Text string
	// System is an optional fixed instruction block; adapters may cache it.
	System string
	// UseWebTools lets the service consult the web while answering.
	UseWebTools bool
}

// Service turns a prompt into free text. Callers expect the text to contain
// one JSON object but must tolerate anything.
type Service interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context, p Prompt) (string, error)

// Complete calls f.
func (f ServiceFunc) Complete(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}
