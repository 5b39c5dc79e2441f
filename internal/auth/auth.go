package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/rnawhale/classroom-poller/internal/logger"
)

// Flow obtains a fresh credential by walking the user through an OAuth
// consent exchange. The local loopback flow and the device flow both
// implement it; the Authorizer does not care which.
type Flow interface {
	Name() string
	Obtain(ctx context.Context) (*oauth2.Token, error)
}

// Authorizer resolves the credential for a run: a stored token when one
// exists, a full flow otherwise.
type Authorizer struct {
	config *oauth2.Config
	store  *Store
	flow   Flow
}

func NewAuthorizer(config *oauth2.Config, store *Store, flow Flow) *Authorizer {
	return &Authorizer{
		config: config,
		store:  store,
		flow:   flow,
	}
}

// Credential returns the stored token as-is when one carries an access or
// refresh token; expiry is the API client's problem, handled by refresh on
// first use. Without a usable stored token the configured flow runs to
// completion and its result is persisted before being returned.
func (a *Authorizer) Credential(ctx context.Context) (*oauth2.Token, error) {
	tok, found, err := a.store.Load()
	if err != nil {
		return nil, err
	}
	if found && (tok.AccessToken != "" || tok.RefreshToken != "") {
		logger.Debug("using stored credential", "path", a.store.Path)
		return tok, nil
	}

	logger.Info("no stored credential, starting authorization",
		"flow", a.flow.Name(),
		"client_id", logger.Redact(a.config.ClientID))

	return a.Reauthorize(ctx)
}

// Reauthorize runs the configured flow regardless of any stored credential
// and persists the fresh token before returning it.
func (a *Authorizer) Reauthorize(ctx context.Context) (*oauth2.Token, error) {
	tok, err := a.flow.Obtain(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.store.Save(tok); err != nil {
		return nil, err
	}
	logger.Debug("credential stored", "path", a.store.Path)

	return tok, nil
}

// HTTPClient wraps the credential in an auto-refreshing HTTP client for the
// Classroom API. A refresh that fails surfaces as a fetch error; the stored
// file is left untouched, so an existing refresh token is never erased by a
// failed attempt.
func (a *Authorizer) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := a.Credential(ctx)
	if err != nil {
		return nil, err
	}
	return a.config.Client(ctx, tok), nil
}

// Store exposes the credential store for the auth command's revoke and
// status handling.
func (a *Authorizer) Store() *Store {
	return a.store
}
