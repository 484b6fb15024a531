package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Match(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		value    string
		pattern  string
		expected bool
	}{
		{
			name:     "empty pattern matches everything",
			value:    "Vault.t.sol",
			pattern:  "",
			expected: true,
		},
		{
			name:     "wildcard pattern matches suffix",
			value:    "Vault.t.sol",
			pattern:  "*Vault.t.sol",
			expected: true,
		},
		{
			name:     "wildcard pattern matches substring",
			value:    "test_deposit_twice",
			pattern:  "*deposit*",
			expected: true,
		},
		{
			name:     "simple contains match",
			value:    "test_withdraw",
			pattern:  "withdraw",
			expected: true,
		},
		{
			name:     "question mark matches one character",
			value:    "test_case1",
			pattern:  "test_case?",
			expected: true,
		},
		{
			name:     "no match",
			value:    "Token.t.sol",
			pattern:  "*Vault*",
			expected: false,
		},
		{
			name:     "multiple wildcards match every part",
			value:    "test_RevertWhen_ZeroAmount",
			pattern:  "*Revert*Zero*",
			expected: true,
		},
		{
			name:     "multiple wildcards require every part",
			value:    "test_RevertWhen_Paused",
			pattern:  "*Revert*Zero*",
			expected: false,
		},
		{
			name:     "only wildcards",
			value:    "anything",
			pattern:  "*",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, filter.Match(tt.value, tt.pattern))
		})
	}
}
