package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// storedToken is the on-disk credential shape. It stays plain JSON with
// these exact field names; companion tooling reads the same file.
type storedToken struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken,omitempty"`
	Expiry       *time.Time `json:"expiry,omitempty"`
}

// Store persists one user's OAuth credential at a fixed path.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads the stored credential. A missing file is not an error; found
// reports whether a credential exists. The token is returned exactly as
// stored, with no validity check.
func (s *Store) Load() (*oauth2.Token, bool, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, NewTokenError("load", "failed to read token file").WithCause(err)
	}

	var rec storedToken
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, NewTokenError("load", "token file is not valid JSON").WithCause(err)
	}

	tok := &oauth2.Token{
		AccessToken:  rec.AccessToken,
		RefreshToken: rec.RefreshToken,
		TokenType:    "Bearer",
	}
	if rec.Expiry != nil {
		tok.Expiry = *rec.Expiry
	}
	return tok, true, nil
}

// Save writes the credential with owner-only permissions, via temp-and-
// rename so the file is never observable half written.
func (s *Store) Save(tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return NewTokenError("save", "failed to create token directory").WithCause(err)
	}

	rec := storedToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		rec.Expiry = &expiry
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return NewTokenError("save", "failed to marshal token").WithCause(err)
	}
	data = append(data, '\n')

	tmp := fmt.Sprintf("%s.tmp", s.Path)
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return NewTokenError("save", "failed to write token file").WithCause(err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return NewTokenError("save", "failed to move token file into place").WithCause(err)
	}
	return nil
}

// Delete removes the stored credential. Deleting a credential that does not
// exist is not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return NewTokenError("delete", "failed to remove token file").WithCause(err)
	}
	return nil
}

// Exists reports whether a credential file is present, without reading it.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}
