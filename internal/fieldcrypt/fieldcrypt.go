// Package fieldcrypt provides authenticated encryption for individual
// sensitive string fields. Envelopes are base64(nonce ‖ tag ‖ ciphertext)
// using AES-256-GCM with a 16-byte nonce, the exact layout of previously
// stored data, so records written before this service stay readable.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const (
	keySize   = 32
	nonceSize = 16
	tagSize   = 16
)

// Sentinel returned by Decrypt when authentication fails. Callers must
// treat it as a data-integrity marker, never as plaintext.
const DecryptFailed = "[DECRYPTION_ERROR]"

// KeyFromSecret derives the fixed-length cipher key from a configured
// secret of arbitrary length: right-pad with '0' characters, then
// truncate to 32 bytes. Non-standard, but required for byte-for-byte
// compatibility with envelopes written by the previous system; replacing
// it with a real KDF would orphan every stored envelope.
func KeyFromSecret(secret string) []byte {
	key := make([]byte, keySize)
	copy(key, secret)
	for i := len(secret); i < keySize; i++ {
		key[i] = '0'
	}
	return key
}

// Cipher encrypts and decrypts field envelopes with a process-wide key,
// immutable after startup and safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// New constructs a Cipher from a 32-byte key.
func New(key []byte) (*Cipher, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("fieldcrypt: key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

// Encrypt seals plaintext into an envelope with a fresh random nonce.
// Empty input returns an empty envelope: absent optional fields are
// stored as-is rather than as an encrypted empty string.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("fieldcrypt: nonce: %w", err)
	}
	// Seal appends the tag after the ciphertext; the stored layout wants
	// nonce ‖ tag ‖ ciphertext, so split and reorder.
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	split := len(sealed) - tagSize
	envelope := make([]byte, 0, nonceSize+len(sealed))
	envelope = append(envelope, nonce...)
	envelope = append(envelope, sealed[split:]...)
	envelope = append(envelope, sealed[:split]...)
	return base64.StdEncoding.EncodeToString(envelope), nil
}

// Decrypt opens an envelope. It fails closed: any malformed or tampered
// envelope yields the DecryptFailed sentinel so a corrupted record can
// render as a marked placeholder instead of taking down the caller.
func (c *Cipher) Decrypt(envelope string) string {
	if envelope == "" {
		return ""
	}
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil || len(raw) < nonceSize+tagSize {
		return DecryptFailed
	}
	nonce := raw[:nonceSize]
	tag := raw[nonceSize : nonceSize+tagSize]
	ciphertext := raw[nonceSize+tagSize:]

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return DecryptFailed
	}
	return string(plaintext)
}
