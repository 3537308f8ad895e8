// Package secrets seals small blobs (OAuth tokens) with a passphrase using
// scrypt and AES-256-GCM.
package secrets

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	envelopeVersion = 1
	saltSize        = 16
	keySize         = 32
)

// Default scrypt cost. Stored in each envelope so it can be raised later
// without breaking existing files.
const (
	defaultN = 1 << 15
	defaultR = 8
	defaultP = 1
)

var (
	// ErrWrongPassphrase means authentication of the ciphertext failed.
	ErrWrongPassphrase = errors.New("wrong passphrase")
	// ErrMalformed means the envelope cannot be parsed or is incomplete.
	ErrMalformed = errors.New("malformed encrypted envelope")
)

// Envelope is the persisted form of sealed data. Byte fields marshal as
// base64.
type Envelope struct {
	Version    int    `json:"version"`
	N          int    `json:"n"`
	R          int    `json:"r"`
	P          int    `json:"p"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Seal encrypts plaintext under passphrase. label is bound to the
// ciphertext as associated data and must be supplied again to Open.
func Seal(plaintext, passphrase []byte, label string) (*Envelope, error) {
	env := &Envelope{Version: envelopeVersion, N: defaultN, R: defaultR, P: defaultP}
	env.Salt = make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, env.Salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	gcm, err := env.aead(passphrase)
	if err != nil {
		return nil, err
	}
	env.Nonce = make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, env.Nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	env.Ciphertext = gcm.Seal(nil, env.Nonce, plaintext, []byte(label))
	return env, nil
}

// Open decrypts env.
func Open(env *Envelope, passphrase []byte, label string) ([]byte, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	gcm, err := env.aead(passphrase)
	if err != nil {
		return nil, err
	}
	if len(env.Nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("%w: nonce is %d bytes", ErrMalformed, len(env.Nonce))
	}
	plaintext, err := gcm.Open(nil, env.Nonce, env.Ciphertext, []byte(label))
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

func (e *Envelope) validate() error {
	switch {
	case e == nil:
		return ErrMalformed
	case e.Version != envelopeVersion:
		return fmt.Errorf("%w: unsupported version %d", ErrMalformed, e.Version)
	case len(e.Salt) == 0 || len(e.Nonce) == 0 || len(e.Ciphertext) == 0:
		return fmt.Errorf("%w: missing fields", ErrMalformed)
	}
	return nil
}

func (e *Envelope) aead(passphrase []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(passphrase, e.Salt, e.N, e.R, e.P, keySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Marshal encodes env as JSON.
func Marshal(env *Envelope) ([]byte, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	return json.MarshalIndent(env, "", "  ")
}

// Unmarshal decodes an envelope produced by Marshal.
func Unmarshal(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := env.validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// IsSealed reports whether data looks like a marshaled envelope rather
// than plaintext JSON.
func IsSealed(data []byte) bool {
	var probe struct {
		Version    int    `json:"version"`
		Ciphertext []byte `json:"ciphertext"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(data), &probe); err != nil {
		return false
	}
	return probe.Version > 0 && len(probe.Ciphertext) > 0
}
