package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2Service_RoundTrip(t *testing.T) {
	svc := NewArgon2Service()

	hash, err := svc.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$")

	match, err := svc.Verify("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, match)
}

func TestArgon2Service_WrongPassword(t *testing.T) {
	svc := NewArgon2Service()

	hash, err := svc.Hash("password-one")
	require.NoError(t, err)

	match, err := svc.Verify("password-two", hash)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestArgon2Service_UniqueSalts(t *testing.T) {
	svc := NewArgon2Service()

	h1, err := svc.Hash("same password")
	require.NoError(t, err)
	h2, err := svc.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "each hash must carry a fresh salt")
}

func TestArgon2Service_MalformedHash(t *testing.T) {
	svc := NewArgon2Service()

	for _, raw := range []string{"", "plainhash", "$bcrypt$whatever", "$argon2id$v=19$broken"} {
		_, err := svc.Verify("anything", raw)
		assert.Error(t, err, "input %q", raw)
	}
}
