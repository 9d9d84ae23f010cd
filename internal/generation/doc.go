// Package generation defines the boundary between the task pipeline and the
// external AI/LLM service that writes content for a topic. The Generator
// interface is implemented by the Gemini adapter in internal/platform/gemini
// and by a mock for tests, so the poller and orchestrator never depend on a
// specific provider.
package generation
