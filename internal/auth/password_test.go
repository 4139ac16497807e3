package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testParams keeps hashing cheap in tests.
var testParams = &Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashRoundTrip(t *testing.T) {
	h := Hasher{Params: testParams}
	encoded, err := h.Hash("secret")
	require.NoError(t, err)
	assert.Contains(t, encoded, "$argon2id$")
	assert.NotContains(t, encoded, "secret")

	ok, err := h.Compare("secret", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	a, err := CreateHash("secret", testParams)
	require.NoError(t, err)
	b, err := CreateHash("secret", testParams)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDecodeHashRejectsGarbage(t *testing.T) {
	_, _, _, err := DecodeHash("not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	_, err = ComparePasswordAndHash("secret", "$argon2id$v=1$m=1,t=1,p=1$AAAA$AAAA")
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestDecodeHashRecoversParams(t *testing.T) {
	encoded, err := CreateHash("secret", testParams)
	require.NoError(t, err)

	p, salt, key, err := DecodeHash(encoded)
	require.NoError(t, err)
	assert.Equal(t, testParams.Memory, p.Memory)
	assert.Equal(t, testParams.Iterations, p.Iterations)
	assert.Len(t, salt, int(testParams.SaltLength))
	assert.Len(t, key, int(testParams.KeyLength))
}
