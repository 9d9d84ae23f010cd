// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API to write a blog post for a topic.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the task pipeline to Google's external Gemini AI service
// without exposing the details of that service to the core application.
//
// Key components:
//
// 1. GeminiGenerator:
//   - Implements the generation.Generator interface
//   - Builds the prompt from an embedded template
//   - Extracts the text of the first candidate
//
// 2. Error Handling:
//   - Retries transient failures with exponential backoff and jitter
//   - Treats safety blocks and unusable responses as permanent
//   - Optionally throttles outbound calls to a requests-per-minute budget
//
// The package depends on the google.golang.org/genai client library
// for communicating with the Gemini API.
package gemini
