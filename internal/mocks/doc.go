// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout the application,
// facilitating consistent and DRY testing across the codebase. Instead of defining
// inline mocks in individual test files, these standardized mock implementations
// can be reused.
//
// Two styles are available:
//
//   - Function-field mocks (MockGenerator, MockTaskStore) with real default
//     behaviour and per-method hooks for error injection
//   - testify/mock mocks (TestifyMockTaskStore) for tests that assert exact
//     calls and arguments
//
// Usage:
//
//	import "github.com/phrazzld/scribe-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    taskStore := mocks.NewMockTaskStore()
//	    generator := &mocks.MockGenerator{
//	        GenerateFn: func(ctx context.Context, topic string) (string, error) {
//	            return "# " + topic, nil
//	        },
//	    }
//
//	    // Use the mocks in your test...
//	}
package mocks
