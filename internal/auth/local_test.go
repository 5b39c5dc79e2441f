package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// syncBuffer lets the test read flow output while Obtain is still writing
// from its own goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startTestCallbackServer(t *testing.T, state string) *callbackServer {
	t.Helper()

	cs, err := startCallbackServer("127.0.0.1:0", state)
	require.NoError(t, err)
	t.Cleanup(cs.Close)

	return cs
}

func get(t *testing.T, rawURL string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(rawURL)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, string(body)
}

func TestCallbackServerRejectsOtherPaths(t *testing.T) {
	cs := startTestCallbackServer(t, "test-state")

	resp, _ := get(t, fmt.Sprintf("http://%s/", cs.Addr()))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, fmt.Sprintf("http://%s/favicon.ico", cs.Addr()))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCallbackServerMissingCode(t *testing.T) {
	cs := startTestCallbackServer(t, "test-state")

	resp, _ := get(t, fmt.Sprintf("http://%s%s?state=test-state", cs.Addr(), CallbackPath))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := cs.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no code")
}

func TestCallbackServerStateMismatch(t *testing.T) {
	cs := startTestCallbackServer(t, "test-state")

	resp, _ := get(t, fmt.Sprintf("http://%s%s?state=forged&code=x", cs.Addr(), CallbackPath))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := cs.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServerSuccess(t *testing.T) {
	cs := startTestCallbackServer(t, "test-state")

	resp, body := get(t, fmt.Sprintf("http://%s%s?state=test-state&code=auth-code", cs.Addr(), CallbackPath))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Authorization received")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	code, err := cs.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "auth-code", code)
}

func TestCallbackServerFirstCallbackWins(t *testing.T) {
	cs := startTestCallbackServer(t, "test-state")

	get(t, fmt.Sprintf("http://%s%s?state=test-state&code=first", cs.Addr(), CallbackPath))
	get(t, fmt.Sprintf("http://%s%s?state=test-state&code=second", cs.Addr(), CallbackPath))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	code, err := cs.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", code)
}

func TestCallbackServerWaitCanceled(t *testing.T) {
	cs := startTestCallbackServer(t, "test-state")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := cs.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRandomStateUnique(t *testing.T) {
	a, err := randomState()
	require.NoError(t, err)
	b, err := randomState()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestLocalFlowObtain(t *testing.T) {
	var (
		mu           sync.Mutex
		exchangeForm url.Values
	)

	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		mu.Lock()
		exchangeForm = r.PostForm
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "exchanged-token",
			"refresh_token": "1//refresh",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(tokenSrv.Close)

	const addr = "127.0.0.1:18089"
	config := &oauth2.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.example.com/o/oauth2/auth",
			TokenURL: tokenSrv.URL,
		},
		RedirectURL: "http://" + addr + CallbackPath,
		Scopes:      []string{"scope-a"},
	}

	out := &syncBuffer{}
	flow := &LocalFlow{Config: config, Addr: addr, Out: out}

	type result struct {
		tok *oauth2.Token
		err error
	}
	done := make(chan result, 1)
	go func() {
		tok, err := flow.Obtain(context.Background())
		done <- result{tok, err}
	}()

	// The printed consent URL carries the state the callback must echo.
	statePattern := regexp.MustCompile(`state=([0-9a-f]{32})`)
	var state string
	deadline := time.Now().Add(2 * time.Second)
	for {
		if m := statePattern.FindStringSubmatch(out.String()); m != nil {
			state = m[1]
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("consent URL never printed")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, body := get(t, fmt.Sprintf("http://%s%s?state=%s&code=test-code", addr, CallbackPath, state))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Authorization received")

	select {
	case res := <-done:
		require.NoError(t, res.err)
		assert.Equal(t, "exchanged-token", res.tok.AccessToken)
		assert.Equal(t, "1//refresh", res.tok.RefreshToken)
	case <-time.After(5 * time.Second):
		t.Fatal("Obtain did not return after the callback")
	}

	mu.Lock()
	form := exchangeForm
	mu.Unlock()
	assert.Equal(t, "test-code", form.Get("code"))
	assert.Equal(t, "authorization_code", form.Get("grant_type"))

	assert.Contains(t, out.String(), "Open this URL")
	assert.Contains(t, out.String(), "access_type=offline")
	assert.Contains(t, out.String(), "prompt=consent")
}

func TestLocalFlowListenFailure(t *testing.T) {
	cs := startTestCallbackServer(t, "occupier")

	flow := &LocalFlow{
		Config: OAuthConfig("client-id", "client-secret"),
		Addr:   cs.Addr(),
		Out:    &bytes.Buffer{},
	}

	_, err := flow.Obtain(context.Background())

	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "listen", authErr.Operation)
}

func TestFlowNames(t *testing.T) {
	assert.Equal(t, "local", NewLocalFlow(OAuthConfig("id", "sec")).Name())
	assert.Equal(t, "device", NewDeviceFlow(OAuthConfig("id", "sec")).Name())
}
