package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/nacl/secretbox"

	"group-service/internal/errs"
)

const (
	keySize   = 32
	nonceSize = 24
)

// Cipher encrypts and decrypts group message bodies with per-group symmetric
// keys. It holds no state; keys travel as explicit arguments.
type Cipher struct{}

// NewCipher constructs a Cipher.
func NewCipher() *Cipher {
	return &Cipher{}
}

// GenerateKey produces a random 256-bit key encoded for storage.
func (c *Cipher) GenerateKey() (string, error) {
	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return "", errs.Crypto("key generation failed", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Encrypt seals plaintext with the given key under a fresh random nonce and
// returns both encoded for storage. The nonce is never reused for a key.
func (c *Cipher) Encrypt(plaintext, key string) (ciphertext, nonce string, err error) {
	if plaintext == "" {
		return "", "", errs.Invalid("message", "empty content")
	}

	k, err := decodeKey(key)
	if err != nil {
		return "", "", err
	}

	var n [nonceSize]byte
	if _, err := rand.Read(n[:]); err != nil {
		return "", "", errs.Crypto("nonce generation failed", err)
	}

	sealed := secretbox.Seal(nil, []byte(plaintext), &n, &k)
	return base64.StdEncoding.EncodeToString(sealed), base64.StdEncoding.EncodeToString(n[:]), nil
}

// Decrypt is the exact inverse of Encrypt. A wrong key, altered nonce, or
// corrupted ciphertext fails authentication and returns a crypto error rather
// than garbage plaintext.
func (c *Cipher) Decrypt(ciphertext, key, nonce string) (string, error) {
	k, err := decodeKey(key)
	if err != nil {
		return "", err
	}

	rawNonce, err := base64.StdEncoding.DecodeString(nonce)
	if err != nil || len(rawNonce) != nonceSize {
		return "", errs.Crypto("malformed nonce", err)
	}
	var n [nonceSize]byte
	copy(n[:], rawNonce)

	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errs.Crypto("malformed ciphertext", err)
	}

	plaintext, ok := secretbox.Open(nil, sealed, &n, &k)
	if !ok {
		return "", errs.Crypto("decryption failed: message authentication failed", errors.New("secretbox open failed"))
	}
	return string(plaintext), nil
}

func decodeKey(key string) ([keySize]byte, error) {
	var k [keySize]byte
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil || len(raw) != keySize {
		return k, errs.Crypto("malformed key", err)
	}
	copy(k[:], raw)
	return k, nil
}
