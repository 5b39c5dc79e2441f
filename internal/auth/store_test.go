package auth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewStore(path)

	expiry := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		Expiry:       expiry,
	}))

	tok, found, err := store.Load()

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ya29.access", tok.AccessToken)
	assert.Equal(t, "1//refresh", tok.RefreshToken)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.True(t, tok.Expiry.Equal(expiry))
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "token.json"))

	tok, found, err := store.Load()

	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, tok)
}

func TestStoreFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewStore(path)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "secret"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStoreFileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewStore(path)

	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken:  "at",
		RefreshToken: "rt",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"accessToken"`)
	assert.Contains(t, string(data), `"refreshToken"`)
	assert.NotContains(t, string(data), `"expiry"`, "zero expiry must be omitted, not serialized")
}

func TestStoreLoadWithoutOptionalFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"accessToken":"at"}`), 0600))

	store := NewStore(path)
	tok, found, err := store.Load()

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "at", tok.AccessToken)
	assert.Empty(t, tok.RefreshToken)
	assert.True(t, tok.Expiry.IsZero())
}

func TestStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	store := NewStore(path)
	_, _, err := store.Load()

	require.Error(t, err)

	var tokenErr *TokenError
	require.ErrorAs(t, err, &tokenErr)
	assert.Equal(t, "load", tokenErr.Operation)
}

func TestStoreSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token.json")
	store := NewStore(path)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "at"}))
	assert.True(t, store.Exists())
}

func TestStoreDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewStore(path)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "at"}))
	require.True(t, store.Exists())

	require.NoError(t, store.Delete())
	assert.False(t, store.Exists())

	// Deleting again is fine.
	assert.NoError(t, store.Delete())
}

func TestStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := NewStore(path)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "old"}))
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "new"}))

	tok, found, err := store.Load()
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", tok.AccessToken)

	// The temp file never survives a completed save.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
