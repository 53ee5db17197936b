package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(10)
	require.NoError(t, err)
	require.Len(t, code, 10)

	// Ambiguous characters never appear.
	for i := 0; i < 50; i++ {
		code, err := GenerateCode(12)
		require.NoError(t, err)
		require.NotContains(t, code, "0")
		require.NotContains(t, code, "O")
		require.NotContains(t, code, "1")
		require.NotContains(t, code, "I")
		require.NotContains(t, code, "l")
		require.Equal(t, "", strings.Trim(code, codeAlphabet))
	}
}

func TestGenerateCode_Distinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := GenerateCode(10)
		require.NoError(t, err)
		require.False(t, seen[code], "generated a duplicate code")
		seen[code] = true
	}
}
