package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/secrets"
	"github.com/codefionn/docsmcp/internal/securemem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func writeCredentials(t *testing.T, dir, tokenURL string) string {
	t.Helper()
	creds := map[string]any{
		"installed": map[string]any{
			"client_id":     "client-id",
			"client_secret": "client-secret",
			"auth_uri":      "https://accounts.example.com/auth",
			"token_uri":     tokenURL,
			"redirect_uris": []string{"http://localhost"},
		},
	}
	data, err := json.Marshal(creds)
	require.NoError(t, err)
	path := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func tokenServer(t *testing.T, issued *atomic.Int32, check func(url.Values)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if check != nil {
			check(r.PostForm)
		}
		n := issued.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"access-%d","token_type":"Bearer","refresh_token":"refresh","expires_in":3600}`, n)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTokenStorePlaintext(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "nested", "token.json"), nil)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	tok := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}
	require.NoError(t, store.Save(tok))
	assert.False(t, store.Encrypted())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)
	assert.Equal(t, "r", got.RefreshToken)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestTokenStoreEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewTokenStore(path, securemem.FromString("hunter2"))

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "secret-access"}))
	assert.True(t, store.Encrypted())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-access")

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "secret-access", got.AccessToken)

	_, err = NewTokenStore(path, nil).Load()
	assert.ErrorIs(t, err, ErrPassphraseRequired)

	_, err = NewTokenStore(path, securemem.FromString("wrong")).Load()
	assert.ErrorIs(t, err, secrets.ErrWrongPassphrase)
}

func TestHTTPClientWithoutTokenIsPermissionDenied(t *testing.T) {
	dir := t.TempDir()
	a := New(Options{
		CredentialsPath: writeCredentials(t, dir, "http://127.0.0.1:1/token"),
		TokenPath:       filepath.Join(dir, "token.json"),
	})

	_, err := a.HTTPClient(context.Background())
	require.Error(t, err)
	assert.Equal(t, docerr.KindPermissionDenied, docerr.KindOf(err))
	assert.Contains(t, err.Error(), "auth login")
}

func TestHTTPClientMissingCredentials(t *testing.T) {
	a := New(Options{
		CredentialsPath: filepath.Join(t.TempDir(), "absent.json"),
		TokenPath:       filepath.Join(t.TempDir(), "token.json"),
	})
	_, err := a.HTTPClient(context.Background())
	assert.True(t, errors.Is(err, docerr.ErrPermissionDenied))
}

func TestHTTPClientUsesCachedToken(t *testing.T) {
	dir := t.TempDir()
	var issued atomic.Int32
	tokens := tokenServer(t, &issued, nil)

	a := New(Options{
		CredentialsPath: writeCredentials(t, dir, tokens.URL),
		TokenPath:       filepath.Join(dir, "token.json"),
	})
	require.NoError(t, a.Store().Save(&oauth2.Token{
		AccessToken:  "cached",
		TokenType:    "Bearer",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}))

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.Header.Get("Authorization"))
	}))
	defer api.Close()

	client, err := a.HTTPClient(context.Background())
	require.NoError(t, err)
	resp, err := client.Get(api.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Bearer cached", string(body))
	assert.Equal(t, int32(0), issued.Load())
}

func TestHTTPClientPersistsRefreshedToken(t *testing.T) {
	dir := t.TempDir()
	var issued atomic.Int32
	tokens := tokenServer(t, &issued, func(form url.Values) {
		assert.Equal(t, "refresh_token", form.Get("grant_type"))
	})

	a := New(Options{
		CredentialsPath: writeCredentials(t, dir, tokens.URL),
		TokenPath:       filepath.Join(dir, "token.json"),
	})
	require.NoError(t, a.Store().Save(&oauth2.Token{
		AccessToken:  "stale",
		TokenType:    "Bearer",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer api.Close()

	client, err := a.HTTPClient(context.Background())
	require.NoError(t, err)
	resp, err := client.Get(api.URL)
	require.NoError(t, err)
	resp.Body.Close()

	saved, err := a.Store().Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", saved.AccessToken)
}

func TestLoginStoresExchangedToken(t *testing.T) {
	dir := t.TempDir()
	var issued atomic.Int32
	tokens := tokenServer(t, &issued, func(form url.Values) {
		assert.Equal(t, "authorization_code", form.Get("grant_type"))
		assert.Equal(t, "the-code", form.Get("code"))
		assert.NotEmpty(t, form.Get("code_verifier"))
	})

	a := New(Options{
		CredentialsPath: writeCredentials(t, dir, tokens.URL),
		TokenPath:       filepath.Join(dir, "token.json"),
		ListenAddr:      "127.0.0.1:0",
	})

	browser := func(consent string) error {
		u, err := url.Parse(consent)
		if err != nil {
			return err
		}
		q := u.Query()
		if q.Get("access_type") != "offline" || q.Get("code_challenge_method") != "S256" {
			return fmt.Errorf("unexpected consent url %s", consent)
		}
		redirect := q.Get("redirect_uri") + "?" + url.Values{
			"code":  {"the-code"},
			"state": {q.Get("state")},
		}.Encode()
		resp, err := http.Get(redirect)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("callback returned %d", resp.StatusCode)
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tok, err := a.Login(ctx, browser)
	require.NoError(t, err)
	assert.Equal(t, "access-1", tok.AccessToken)

	st := a.Status()
	assert.Equal(t, ModeOAuth, st.Mode)
	assert.True(t, st.HasToken)
	assert.True(t, st.Refresh)
	assert.False(t, st.Encrypted)
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantErr    bool
		delivered  bool
	}{
		{name: "success", query: "state=s&code=c", wantStatus: 200, wantCode: "c", delivered: true},
		{name: "state mismatch", query: "state=x&code=c", wantStatus: 400},
		{name: "denied", query: "state=s&error=access_denied", wantStatus: 400, wantErr: true, delivered: true},
		{name: "no code", query: "state=s", wantStatus: 400, wantErr: true, delivered: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make(chan callbackResult, 1)
			h := callbackHandler("s", results)
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, callbackPath+"?"+tt.query, nil), nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			select {
			case res := <-results:
				require.True(t, tt.delivered, "unexpected result %+v", res)
				assert.Equal(t, tt.wantCode, res.code)
				assert.Equal(t, tt.wantErr, res.err != nil)
			default:
				assert.False(t, tt.delivered, "expected a result")
			}
		})
	}
}

func TestServiceAccountMode(t *testing.T) {
	dir := t.TempDir()
	a := New(Options{ServiceAccountPath: filepath.Join(dir, "sa.json"), TokenPath: filepath.Join(dir, "token.json")})
	assert.Equal(t, ModeServiceAccount, a.Mode())

	st := a.Status()
	assert.False(t, st.HasToken)
	assert.Error(t, st.LoadFailed)

	_, err := a.HTTPClient(context.Background())
	assert.Equal(t, docerr.KindPermissionDenied, docerr.KindOf(err))

	_, err = a.Login(context.Background(), func(string) error { return nil })
	assert.Error(t, err)
	assert.Error(t, a.Logout())
}
