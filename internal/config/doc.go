// Package config handles configuration loading, parsing, and validation
// from a .env file, an optional config.yaml, and SCRIBE_-prefixed
// environment variables. It provides type-safe access to the server,
// database, LLM and worker settings while keeping configuration details
// separate from business logic.
package config
