/*-
 * Copyright 2025 The SODA Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package secrets is the credential vault: reversible encode/decode of the
// community strings and v3 auth/privacy keys stored on alert sources.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	keyLength   = 32
	nonceLength = 12
)

var (
	// ErrInvalidKeyLength indicates the provided key is not the required size.
	ErrInvalidKeyLength = errors.New("secrets: encryption key must be 32 bytes")
	// ErrCiphertextTooShort indicates the ciphertext payload is shorter than the nonce.
	ErrCiphertextTooShort = errors.New("secrets: ciphertext too short")
)

// Cipher is the pluggable vault contract. Implementations must be
// reversible: Decrypt(Encrypt(x)) == x.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encoded string) (string, error)
}

// AESCipher encrypts secrets with AES-256-GCM before storage.
type AESCipher struct {
	key []byte
}

// NewAESCipher constructs an AESCipher from the provided key bytes.
func NewAESCipher(key []byte) (*AESCipher, error) {
	if len(key) != keyLength {
		return nil, ErrInvalidKeyLength
	}

	buf := make([]byte, keyLength)
	copy(buf, key)

	return &AESCipher{key: buf}, nil
}

// Encrypt serialises plaintext using AES-256-GCM and returns a base64 payload.
func (c *AESCipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("secrets: create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("secrets: init gcm: %w", err)
	}

	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("secrets: generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt and returns the original plaintext.
func (c *AESCipher) Decrypt(encoded string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("secrets: decode ciphertext: %w", err)
	}

	if len(payload) < nonceLength {
		return "", ErrCiphertextTooShort
	}

	nonce := payload[:nonceLength]
	ciphertext := payload[nonceLength:]

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("secrets: create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("secrets: init gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("secrets: decrypt payload: %w", err)
	}

	return string(plaintext), nil
}

// PlainCipher is a passthrough vault used by tests and offline deployments
// that disable encryption at rest.
type PlainCipher struct{}

func (PlainCipher) Encrypt(plaintext string) (string, error) { return plaintext, nil }

func (PlainCipher) Decrypt(encoded string) (string, error) { return encoded, nil }
