package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgonPasswordHasher(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name      string
		password  string
		candidate string

		expectedValid bool
	}

	testCases := []testCase{
		{name: "matching password", password: "vend1ng!", candidate: "vend1ng!", expectedValid: true},
		{name: "wrong password", password: "vend1ng!", candidate: "vend1ng?", expectedValid: false},
		{name: "empty password", password: "", candidate: "", expectedValid: true},
	}

	for _, tc := range testCases {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hasher := NewArgonPasswordHasher()

			hashedPassword, err := hasher.HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hashedPassword)

			isValid, err := hasher.VerifyPassword(tt.candidate, hashedPassword)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedValid, isValid)
		})
	}
}
