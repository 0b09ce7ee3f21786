package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"group-service/internal/errs"
)

func TestGenerateKeyLengthAndUniqueness(t *testing.T) {
	c := NewCipher()

	key1, err := c.GenerateKey()
	require.NoError(t, err)
	key2, err := c.GenerateKey()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(key1)
	require.NoError(t, err)
	require.Len(t, raw, 32)
	require.NotEqual(t, key1, key2)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := NewCipher()
	key, err := c.GenerateKey()
	require.NoError(t, err)

	for _, plaintext := range []string{"a", "hello group", "päivää 你好", string(make([]byte, 4096))} {
		ciphertext, nonce, err := c.Encrypt(plaintext, key)
		require.NoError(t, err)
		require.NotEqual(t, plaintext, ciphertext)

		got, err := c.Decrypt(ciphertext, key, nonce)
		require.NoError(t, err)
		require.Equal(t, plaintext, got)
	}
}

func TestEncryptUsesFreshNonces(t *testing.T) {
	c := NewCipher()
	key, err := c.GenerateKey()
	require.NoError(t, err)

	_, nonce1, err := c.Encrypt("same message", key)
	require.NoError(t, err)
	_, nonce2, err := c.Encrypt("same message", key)
	require.NoError(t, err)

	require.NotEqual(t, nonce1, nonce2)
}

func TestEncryptRejectsEmptyContent(t *testing.T) {
	c := NewCipher()
	key, err := c.GenerateKey()
	require.NoError(t, err)

	_, _, err = c.Encrypt("", key)
	require.Error(t, err)
	require.Equal(t, errs.KindInvalid, errs.KindOf(err))
}

func TestDecryptWrongKeyFails(t *testing.T) {
	c := NewCipher()
	key, err := c.GenerateKey()
	require.NoError(t, err)
	otherKey, err := c.GenerateKey()
	require.NoError(t, err)

	ciphertext, nonce, err := c.Encrypt("secret", key)
	require.NoError(t, err)

	_, err = c.Decrypt(ciphertext, otherKey, nonce)
	require.Error(t, err)
	require.Equal(t, errs.KindCrypto, errs.KindOf(err))
}

func TestDecryptAlteredNonceFails(t *testing.T) {
	c := NewCipher()
	key, err := c.GenerateKey()
	require.NoError(t, err)

	ciphertext, nonce, err := c.Encrypt("secret", key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(nonce)
	require.NoError(t, err)
	raw[0] ^= 0xff
	altered := base64.StdEncoding.EncodeToString(raw)

	_, err = c.Decrypt(ciphertext, key, altered)
	require.Error(t, err)
	require.Equal(t, errs.KindCrypto, errs.KindOf(err))
}

func TestDecryptTamperedCiphertextFails(t *testing.T) {
	c := NewCipher()
	key, err := c.GenerateKey()
	require.NoError(t, err)

	ciphertext, nonce, err := c.Encrypt("secret", key)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err = c.Decrypt(tampered, key, nonce)
	require.Error(t, err)
	require.Equal(t, errs.KindCrypto, errs.KindOf(err))
}

func TestDecryptMalformedInputsFail(t *testing.T) {
	c := NewCipher()
	key, err := c.GenerateKey()
	require.NoError(t, err)

	ciphertext, nonce, err := c.Encrypt("secret", key)
	require.NoError(t, err)

	cases := []struct {
		name           string
		ct, key, nonce string
	}{
		{"bad key encoding", ciphertext, "not-base64!!", nonce},
		{"short key", ciphertext, base64.StdEncoding.EncodeToString([]byte("short")), nonce},
		{"bad nonce encoding", ciphertext, key, "not-base64!!"},
		{"short nonce", ciphertext, key, base64.StdEncoding.EncodeToString([]byte("short"))},
		{"bad ciphertext encoding", "not-base64!!", key, nonce},
		{"truncated ciphertext", "", key, nonce},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Decrypt(tc.ct, tc.key, tc.nonce)
			require.Error(t, err)
			require.Equal(t, errs.KindCrypto, errs.KindOf(err))
		})
	}
}
