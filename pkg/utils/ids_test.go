package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureID(t *testing.T) {
	id, err := GenerateSecureID(20)
	require.NoError(t, err)
	assert.Len(t, id, 20)
	assert.Regexp(t, "^[a-zA-Z0-9]+$", id)

	other, err := GenerateSecureID(20)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}

func TestGenerateSecureIDZeroLength(t *testing.T) {
	id, err := GenerateSecureID(0)
	require.NoError(t, err)
	assert.Empty(t, id)
}
