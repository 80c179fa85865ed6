package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("E001", "Kim")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "E001", claims.EmployeeID)
	assert.Equal(t, "Kim", claims.Name)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("E001", "Kim")
	require.NoError(t, err)

	SetSecret("a different secret")
	defer SetSecret("office_web_dev_secret")

	_, err = ParseToken(token)
	assert.Error(t, err)
}
