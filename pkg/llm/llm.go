// Package llm provides text-generation clients behind one interface.
package llm

import "context"

// LLM is a text-generation collaborator. Chat sends one prompt and returns
// the raw response text.
type LLM interface {
	Chat(ctx context.Context, prompt string) (string, error)
}
