package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyTopic is returned when the topic is empty or whitespace.
	ErrEmptyTopic = errors.New("topic cannot be empty")
)
