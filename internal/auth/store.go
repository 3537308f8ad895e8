package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codefionn/docsmcp/internal/secrets"
	"github.com/codefionn/docsmcp/internal/securemem"
	"golang.org/x/oauth2"
)

// tokenLabel binds sealed token files to their purpose.
const tokenLabel = "docsmcp/oauth-token"

var (
	// ErrNoToken means no cached token exists yet.
	ErrNoToken = errors.New("no cached token")
	// ErrPassphraseRequired means the cached token is sealed and no
	// passphrase was supplied.
	ErrPassphraseRequired = errors.New("cached token is encrypted; a passphrase is required")
)

// TokenStore persists an OAuth token, sealed when a passphrase is set.
type TokenStore struct {
	path       string
	passphrase *securemem.Secret
}

// NewTokenStore creates a store at path. A nil or empty passphrase stores
// the token in plaintext.
func NewTokenStore(path string, passphrase *securemem.Secret) *TokenStore {
	return &TokenStore{path: path, passphrase: passphrase}
}

// Path returns the token file location.
func (s *TokenStore) Path() string { return s.path }

// Encrypted reports whether the file on disk is sealed.
func (s *TokenStore) Encrypted() bool {
	data, err := os.ReadFile(s.path)
	return err == nil && secrets.IsSealed(data)
}

// Load reads the cached token.
func (s *TokenStore) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("read token: %w", err)
	}

	if secrets.IsSealed(data) {
		if s.passphrase.Empty() {
			return nil, ErrPassphraseRequired
		}
		env, err := secrets.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		err = s.passphrase.Use(func(p []byte) error {
			plain, openErr := secrets.Open(env, p, tokenLabel)
			data = plain
			return openErr
		})
		if err != nil {
			return nil, fmt.Errorf("unseal token: %w", err)
		}
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return &tok, nil
}

// Save writes tok, replacing any previous file atomically.
func (s *TokenStore) Save(tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if !s.passphrase.Empty() {
		err = s.passphrase.Use(func(p []byte) error {
			env, sealErr := secrets.Seal(data, p, tokenLabel)
			if sealErr != nil {
				return sealErr
			}
			data, sealErr = secrets.Marshal(env)
			return sealErr
		})
		if err != nil {
			return fmt.Errorf("seal token: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".token-*")
	if err != nil {
		return fmt.Errorf("create temp token: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// Delete removes the cached token. A missing file is not an error.
func (s *TokenStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// savingSource persists every token its base source hands out that differs
// from the last one saved, so refreshed tokens survive restarts.
type savingSource struct {
	base  oauth2.TokenSource
	store *TokenStore
	last  string
	onErr func(error)
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		if err := s.store.Save(tok); err != nil && s.onErr != nil {
			s.onErr(err)
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
