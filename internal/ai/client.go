package ai

import "context"

// Client is the minimal surface the chat relay needs from a text-generation
// provider.
type Client interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
