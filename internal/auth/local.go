package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"

	"github.com/rnawhale/classroom-poller/internal/logger"
)

// LocalFlow authorizes via the browser: it binds a loopback listener,
// prints the consent URL, and trades the redirected authorization code for
// a token.
type LocalFlow struct {
	Config *oauth2.Config

	// Addr is the loopback listen address; it must agree with the
	// config's redirect URL for the real provider.
	Addr string

	// Out is where user-facing instructions are printed.
	Out io.Writer
}

func NewLocalFlow(config *oauth2.Config) *LocalFlow {
	return &LocalFlow{
		Config: config,
		Addr:   CallbackAddr,
		Out:    os.Stdout,
	}
}

func (f *LocalFlow) Name() string {
	return "local"
}

// Obtain runs the flow to completion: exactly one callback settles the
// wait, and the listener is torn down on every exit path.
func (f *LocalFlow) Obtain(ctx context.Context) (*oauth2.Token, error) {
	state, err := randomState()
	if err != nil {
		return nil, NewAuthError("state", "failed to generate state token").WithCause(err)
	}

	srv, err := startCallbackServer(f.Addr, state)
	if err != nil {
		return nil, NewAuthError("listen", fmt.Sprintf("failed to bind callback listener on %s", f.Addr)).WithCause(err)
	}
	defer srv.Close()

	authURL := f.Config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(f.Out, "Open this URL in your browser to authorize:\n\n  %s\n\n", authURL)
	fmt.Fprintln(f.Out, "Waiting for the authorization callback...")
	logger.Debug("callback listener ready", "addr", srv.Addr())

	code, err := srv.Wait(ctx)
	if err != nil {
		return nil, err
	}

	tok, err := f.Config.Exchange(ctx, code)
	if err != nil {
		return nil, NewAuthError("exchange", "authorization code exchange failed").WithCause(err)
	}
	return tok, nil
}

type callbackResult struct {
	code string
	err  error
}

// callbackServer is the one-shot loopback listener for the redirect. The
// first callback wins; any later request changes nothing.
type callbackServer struct {
	ln    net.Listener
	srv   *http.Server
	done  chan callbackResult
	state string
}

func startCallbackServer(addr, state string) (*callbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	cs := &callbackServer{
		ln:    ln,
		done:  make(chan callbackResult, 1),
		state: state,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(CallbackPath, cs.handleCallback)
	cs.srv = &http.Server{Handler: mux}

	go func() {
		if err := cs.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cs.deliver(callbackResult{err: NewAuthError("listen", "callback server failed").WithCause(err)})
		}
	}()

	return cs, nil
}

// handleCallback enforces the callback contract: the registered path only
// (the mux 404s everything else), state must match, code must be present.
func (cs *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if query.Get("state") != cs.state {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		cs.deliver(callbackResult{err: NewAuthError("callback", "state mismatch on authorization callback")})
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		cs.deliver(callbackResult{err: NewAuthError("callback", "authorization callback carried no code")})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "Authorization received. You can close this tab and return to the terminal.")
	cs.deliver(callbackResult{code: code})
}

func (cs *callbackServer) deliver(res callbackResult) {
	select {
	case cs.done <- res:
	default:
	}
}

// Wait blocks until the first callback or context cancellation.
func (cs *callbackServer) Wait(ctx context.Context) (string, error) {
	select {
	case res := <-cs.done:
		return res.code, res.err
	case <-ctx.Done():
		return "", NewAuthError("callback", "authorization canceled").WithCause(ctx.Err())
	}
}

// Addr returns the bound listen address.
func (cs *callbackServer) Addr() string {
	return cs.ln.Addr().String()
}

// Close drains in-flight responses briefly, then tears the listener down.
func (cs *callbackServer) Close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cs.srv.Shutdown(shutdownCtx); err != nil {
		_ = cs.srv.Close()
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
