// Package auth obtains authenticated HTTP clients for the Docs and Drive
// APIs, either through a service account or a cached OAuth user token.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/logger"
	"github.com/codefionn/docsmcp/internal/securemem"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
)

// Scopes requested for both authentication modes.
var Scopes = []string{docs.DocumentsScope, drive.DriveScope}

// Mode names how the server authenticates.
type Mode string

const (
	ModeOAuth          Mode = "oauth"
	ModeServiceAccount Mode = "service_account"
)

// Options configures an Authenticator.
type Options struct {
	CredentialsPath    string
	TokenPath          string
	ServiceAccountPath string
	Subject            string // impersonated user for domain-wide delegation
	ListenAddr         string // loopback address for the OAuth redirect
	Passphrase         *securemem.Secret
}

// Authenticator hands out HTTP clients carrying Google credentials.
type Authenticator struct {
	opts  Options
	store *TokenStore
	log   *logger.Logger
}

// New creates an Authenticator.
func New(opts Options) *Authenticator {
	return &Authenticator{
		opts:  opts,
		store: NewTokenStore(opts.TokenPath, opts.Passphrase),
		log:   logger.Global().WithPrefix("auth"),
	}
}

// Mode reports which credential type is in use.
func (a *Authenticator) Mode() Mode {
	if a.opts.ServiceAccountPath != "" {
		return ModeServiceAccount
	}
	return ModeOAuth
}

// Store returns the OAuth token store.
func (a *Authenticator) Store() *TokenStore { return a.store }

// HTTPClient returns a client for the Google APIs. It never starts an
// interactive flow; a missing OAuth token is reported as a permission error.
func (a *Authenticator) HTTPClient(ctx context.Context) (*http.Client, error) {
	// The returned client outlives the call that created it.
	ctx = context.WithoutCancel(ctx)

	if a.Mode() == ModeServiceAccount {
		return a.serviceAccountClient(ctx)
	}

	cfg, err := a.oauthConfig()
	if err != nil {
		return nil, err
	}
	tok, err := a.store.Load()
	switch {
	case errors.Is(err, ErrNoToken):
		return nil, docerr.New(docerr.KindPermissionDenied, "not authenticated; run 'docsmcp auth login' first")
	case errors.Is(err, ErrPassphraseRequired):
		return nil, docerr.New(docerr.KindPermissionDenied, "cached token is encrypted; set %s", passphraseHint)
	case err != nil:
		return nil, docerr.Wrap(docerr.KindPermissionDenied, err, "load cached token")
	}

	src := &savingSource{
		base:  cfg.TokenSource(ctx, tok),
		store: a.store,
		last:  tok.AccessToken,
		onErr: func(err error) { a.log.Warn("failed to persist refreshed token: %v", err) },
	}
	a.log.Debug("using cached OAuth token from %s", a.store.Path())
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

const passphraseHint = "DOCSMCP_TOKEN_PASSWORD or run interactively"

func (a *Authenticator) serviceAccountClient(ctx context.Context) (*http.Client, error) {
	data, err := os.ReadFile(a.opts.ServiceAccountPath)
	if err != nil {
		return nil, docerr.Wrap(docerr.KindPermissionDenied, err, "read service account key")
	}
	cfg, err := google.JWTConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, docerr.Wrap(docerr.KindPermissionDenied, err, "parse service account key")
	}
	if a.opts.Subject != "" {
		cfg.Subject = a.opts.Subject
	}
	a.log.Debug("using service account %s", cfg.Email)
	return cfg.Client(ctx), nil
}

func (a *Authenticator) oauthConfig() (*oauth2.Config, error) {
	data, err := os.ReadFile(a.opts.CredentialsPath)
	if err != nil {
		return nil, docerr.Wrap(docerr.KindPermissionDenied, err, "read OAuth client credentials %s", a.opts.CredentialsPath)
	}
	cfg, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, docerr.Wrap(docerr.KindPermissionDenied, err, "parse OAuth client credentials")
	}
	return cfg, nil
}

// Status describes the current credential state.
type Status struct {
	Mode       Mode
	Source     string // key file or token path
	HasToken   bool
	Encrypted  bool
	Expiry     time.Time
	Refresh    bool // a refresh token is cached
	LoadFailed error
}

// Status inspects credentials without touching the network.
func (a *Authenticator) Status() Status {
	if a.Mode() == ModeServiceAccount {
		st := Status{Mode: ModeServiceAccount, Source: a.opts.ServiceAccountPath}
		if _, err := os.Stat(a.opts.ServiceAccountPath); err != nil {
			st.LoadFailed = err
		} else {
			st.HasToken = true
		}
		return st
	}

	st := Status{Mode: ModeOAuth, Source: a.store.Path(), Encrypted: a.store.Encrypted()}
	tok, err := a.store.Load()
	switch {
	case errors.Is(err, ErrNoToken):
	case err != nil:
		st.HasToken = true
		st.LoadFailed = err
	default:
		st.HasToken = true
		st.Expiry = tok.Expiry
		st.Refresh = tok.RefreshToken != ""
	}
	return st
}

// Logout removes the cached OAuth token.
func (a *Authenticator) Logout() error {
	if a.Mode() == ModeServiceAccount {
		return fmt.Errorf("service account credentials are not cached; remove %s yourself", a.opts.ServiceAccountPath)
	}
	if err := a.store.Delete(); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	a.log.Info("removed cached token %s", a.store.Path())
	return nil
}
