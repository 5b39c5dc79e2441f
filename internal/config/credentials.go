package config

import (
	"path/filepath"

	"github.com/caarlos0/env"

	"github.com/rnawhale/classroom-poller/internal/logger"
)

// Authorization flow selectors accepted by GOOGLE_AUTH_METHOD.
const (
	MethodLocal  = "local"
	MethodDevice = "device"
)

// Credentials holds the OAuth client settings. They come from the process
// environment (a .env file is loaded at startup) rather than the config
// file, so the client secret never sits next to committed settings.
type Credentials struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID,required"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET,required"`
	TokenFile    string `env:"GOOGLE_TOKEN_FILE"`
	AuthMethod   string `env:"GOOGLE_AUTH_METHOD" envDefault:"local"`
}

// LoadCredentials reads and validates the credential environment. A missing
// required variable fails here, before any network call.
func LoadCredentials() (*Credentials, error) {
	creds := &Credentials{}
	if err := env.Parse(creds); err != nil {
		return nil, NewConfigError("credentials", "", err.Error()).WithCause(err)
	}

	if err := creds.validate(); err != nil {
		return nil, err
	}

	if creds.TokenFile == "" {
		configDir, err := getDefaultConfigDir()
		if err != nil {
			return nil, NewConfigError("GOOGLE_TOKEN_FILE", "", "cannot derive default token path").WithCause(err)
		}
		creds.TokenFile = filepath.Join(configDir, "token.json")
	}

	return creds, nil
}

func (c *Credentials) validate() error {
	if c.ClientID == "" {
		return NewConfigError("GOOGLE_CLIENT_ID", "", "client ID cannot be empty")
	}
	if c.ClientSecret == "" {
		return NewConfigError("GOOGLE_CLIENT_SECRET", "", "client secret cannot be empty")
	}
	if c.AuthMethod != MethodLocal && c.AuthMethod != MethodDevice {
		return NewConfigError("GOOGLE_AUTH_METHOD", c.AuthMethod, "must be \"local\" or \"device\"")
	}
	return nil
}

// Sanitize returns a copy of the credentials with sensitive values redacted
// for logging.
func (c *Credentials) Sanitize() map[string]any {
	return map[string]any{
		"client_id":   logger.Redact(c.ClientID),
		"token_file":  c.TokenFile,
		"auth_method": c.AuthMethod,
	}
}
