package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var fastArgon2 = Argon2Config{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestBcrypt(t *testing.T) {
	h := NewBcrypt(bcrypt.MinCost)

	hashed, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, h.Verify(hashed, "s3cret"))
	assert.False(t, h.Verify(hashed, "wrong"))
	assert.False(t, h.Verify("not-a-hash", "s3cret"))
}

func TestArgon2id(t *testing.T) {
	h := NewArgon2id(fastArgon2)

	hashed, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashed, "$argon2id$v=19$m=1024,t=1,p=1$"))
	assert.True(t, h.Verify(hashed, "s3cret"))
	assert.False(t, h.Verify(hashed, "wrong"))

	other, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hashed, other, "salt must differ")

	assert.False(t, h.Verify("$argon2id$v=18$m=1,t=1,p=1$AAAA$AAAA", "s3cret"))
	assert.False(t, h.Verify("$bcrypt$", "s3cret"))
}

func TestMultiVerifiesBothFormats(t *testing.T) {
	h, err := New("argon2id")
	require.NoError(t, err)

	bcryptHash, err := NewBcrypt(bcrypt.MinCost).Hash("pw")
	require.NoError(t, err)
	argonHash, err := NewArgon2id(fastArgon2).Hash("pw")
	require.NoError(t, err)

	assert.True(t, h.Verify(bcryptHash, "pw"))
	assert.True(t, h.Verify(argonHash, "pw"))
	assert.False(t, h.Verify(argonHash, "nope"))

	_, err = New("md5")
	assert.Error(t, err)
}
