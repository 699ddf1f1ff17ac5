package credential

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashFormat(t *testing.T) {
	h := NewHasher()

	stored, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)

	hashHex, saltHex, ok := strings.Cut(stored, ":")
	require.True(t, ok, "stored value must contain a single colon separator")

	hash, err := hex.DecodeString(hashHex)
	require.NoError(t, err)
	assert.Len(t, hash, KeySize)

	salt, err := hex.DecodeString(saltHex)
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize)
}

func TestHasher_VerifyRoundtrip(t *testing.T) {
	h := NewHasher()

	stored, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.True(t, h.Verify("secret123", stored))
	assert.False(t, h.Verify("secret124", stored))
	assert.False(t, h.Verify("", stored))
}

func TestHasher_SaltIsRandom(t *testing.T) {
	h := NewHasher()

	first, err := h.Hash("same password")
	require.NoError(t, err)
	second, err := h.Hash("same password")
	require.NoError(t, err)

	// Одинаковые пароли дают разные хеши благодаря случайной соли,
	// но оба проходят проверку.
	assert.NotEqual(t, first, second)
	assert.True(t, h.Verify("same password", first))
	assert.True(t, h.Verify("same password", second))
}

func TestHasher_VerifyMalformedStored(t *testing.T) {
	h := NewHasher()

	malformed := []string{
		"",
		"no-separator",
		"deadbeef",                  // нет соли
		"zzzz:deadbeef",             // хеш не hex
		"deadbeef:zzzz",             // соль не hex
		":deadbeef",                 // пустой хеш
		"deadbeef:",                 // пустая соль
		"deadbeef:deadbeef:deadbee", // лишний разделитель попадает в соль
	}

	for _, stored := range malformed {
		assert.False(t, h.Verify("any password", stored), "stored=%q", stored)
	}
}
