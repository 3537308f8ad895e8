package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/oauth2"
)

const callbackPath = "/callback"

type callbackResult struct {
	code string
	err  error
}

// Login runs the installed-app OAuth flow: it listens on the loopback
// address, hands the consent URL to open, waits for the redirect and stores
// the exchanged token. open may print the URL instead of launching a
// browser.
func (a *Authenticator) Login(ctx context.Context, open func(url string) error) (*oauth2.Token, error) {
	if a.Mode() == ModeServiceAccount {
		return nil, errors.New("service account mode does not need an interactive login")
	}
	cfg, err := a.oauthConfig()
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", a.opts.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen for OAuth redirect: %w", err)
	}
	cfg.RedirectURL = "http://" + ln.Addr().String() + callbackPath

	state, err := randomState()
	if err != nil {
		ln.Close()
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()
	results := make(chan callbackResult, 1)

	router := httprouter.New()
	router.GET(callbackPath, callbackHandler(state, results))
	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("OAuth callback server: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
		oauth2.S256ChallengeOption(verifier),
	)
	a.log.Info("waiting for OAuth redirect on %s", cfg.RedirectURL)
	if err := open(authURL); err != nil {
		return nil, fmt.Errorf("open consent page: %w", err)
	}

	var res callbackResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := cfg.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := a.store.Save(tok); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	a.log.Info("stored OAuth token at %s", a.store.Path())
	return tok, nil
}

func callbackHandler(state string, results chan<- callbackResult) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		q := r.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		case q.Get("error") != "":
			res.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("authorization response carried no code")
		default:
			res.code = q.Get("code")
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if res.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "<p>%s</p>", html.EscapeString(res.err.Error()))
		} else {
			fmt.Fprint(w, "<p>docsmcp is authorized. You can close this window.</p>")
		}

		select {
		case results <- res:
		default:
		}
	}
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
