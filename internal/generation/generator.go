package generation

import "context"

// Generator defines the interface for producing content for a topic.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Generator interface {
	// Generate writes a piece of content about topic.
	//
	// Implementations may take minutes and may call further external
	// services. They should honour ctx cancellation where they can.
	// Returns one of the errors in errors.go, possibly wrapped, on failure.
	Generate(ctx context.Context, topic string) (string, error)
}
