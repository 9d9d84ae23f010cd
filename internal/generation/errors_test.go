package generation_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/scribe-api/internal/generation"
	"github.com/stretchr/testify/assert"
)

func TestErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	all := []error{
		generation.ErrGenerationFailed,
		generation.ErrInvalidResponse,
		generation.ErrContentBlocked,
		generation.ErrTransientFailure,
		generation.ErrInvalidConfig,
		generation.ErrEmptyContent,
	}

	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestErrorsSurviveWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("attempt 3: %w", generation.ErrContentBlocked)
	assert.ErrorIs(t, wrapped, generation.ErrContentBlocked)
	assert.NotErrorIs(t, wrapped, generation.ErrTransientFailure)
}
