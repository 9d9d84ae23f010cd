package testdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTestDatabaseURL(t *testing.T) {
	tests := []struct {
		name      string
		dbURL     string
		testDBURL string
		expected  string
	}{
		{
			name:     "neither set",
			expected: "",
		},
		{
			name:      "only test url set",
			testDBURL: "postgres://test@localhost/scribe_test",
			expected:  "postgres://test@localhost/scribe_test",
		},
		{
			name:      "database url wins",
			dbURL:     "postgres://ci@localhost/scribe",
			testDBURL: "postgres://test@localhost/scribe_test",
			expected:  "postgres://ci@localhost/scribe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", tt.dbURL)
			t.Setenv("SCRIBE_TEST_DB_URL", tt.testDBURL)

			assert.Equal(t, tt.expected, GetTestDatabaseURL())
			assert.Equal(t, tt.expected != "", IsIntegrationTestEnvironment())
		})
	}
}
