package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/rnawhale/classroom-poller/internal/logger"
)

const (
	deviceGrantType = "urn:ietf:params:oauth:grant-type:device_code"

	// Fallbacks for servers that omit the optional fields.
	defaultPollInterval  = 5 * time.Second
	defaultDeviceExpiry  = 600 * time.Second
	deviceRequestTimeout = 30 * time.Second
)

// DeviceFlow authorizes on a second device: it requests a user code, prints
// it with the verification URL, and polls the token endpoint until the user
// approves or the code expires.
type DeviceFlow struct {
	ClientID     string
	ClientSecret string
	Scopes       []string

	// Endpoint overrides; zero values select the Google endpoints.
	DeviceAuthURL string
	TokenURL      string

	HTTPClient *http.Client

	// Out is where user-facing instructions are printed.
	Out io.Writer
}

func NewDeviceFlow(config *oauth2.Config) *DeviceFlow {
	return &DeviceFlow{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scopes,
		HTTPClient:   &http.Client{Timeout: deviceRequestTimeout},
		Out:          os.Stdout,
	}
}

func (f *DeviceFlow) Name() string {
	return "device"
}

// deviceCodeResponse is the device authorization endpoint's reply.
type deviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// tokenResponse is the token endpoint's reply on approval.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// Obtain runs the grant end to end. Expiry without approval is terminal and
// carries ErrApprovalTimeout.
func (f *DeviceFlow) Obtain(ctx context.Context) (*oauth2.Token, error) {
	deviceResp, err := f.requestDeviceCode(ctx)
	if err != nil {
		return nil, err
	}

	logger.Debug("device code received",
		"user_code", deviceResp.UserCode,
		"expires_in", deviceResp.ExpiresIn,
		"interval", deviceResp.Interval)

	f.displayInstructions(deviceResp)

	return f.pollForToken(ctx, deviceResp)
}

// requestDeviceCode asks the authorization endpoint for device and user
// codes. Missing interval and expiry fields fall back to 5s and 600s.
func (f *DeviceFlow) requestDeviceCode(ctx context.Context) (*deviceCodeResponse, error) {
	params := url.Values{
		"client_id": {f.ClientID},
		"scope":     {strings.Join(f.Scopes, " ")},
	}

	endpoint := f.DeviceAuthURL
	if endpoint == "" {
		endpoint = DeviceAuthURL
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, NewAuthError("device_code", "failed to create device code request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, NewAuthError("device_code", "device code request failed").WithCause(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		var errResp pollError
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.ErrorCode != "" {
			return nil, NewAuthError("device_code", fmt.Sprintf("server rejected request: %s", errResp.ErrorCode)).WithCause(&errResp)
		}
		return nil, NewAuthError("device_code", fmt.Sprintf("unexpected status code %d", resp.StatusCode))
	}

	var deviceResp deviceCodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&deviceResp); err != nil {
		return nil, NewAuthError("device_code", "failed to decode device code response").WithCause(err)
	}

	if deviceResp.DeviceCode == "" || deviceResp.UserCode == "" || deviceResp.VerificationURL == "" {
		return nil, NewAuthError("device_code", "device code response missing required fields")
	}

	if deviceResp.Interval <= 0 {
		deviceResp.Interval = int(defaultPollInterval / time.Second)
	}
	if deviceResp.ExpiresIn <= 0 {
		deviceResp.ExpiresIn = int(defaultDeviceExpiry / time.Second)
	}

	return &deviceResp, nil
}

func (f *DeviceFlow) displayInstructions(deviceResp *deviceCodeResponse) {
	fmt.Fprintf(f.Out, "\nVisit: %s\n", deviceResp.VerificationURL)
	fmt.Fprintf(f.Out, "Enter code: %s\n\n", deviceResp.UserCode)
	fmt.Fprintf(f.Out, "This code expires in %d minutes.\n", deviceResp.ExpiresIn/60)
	fmt.Fprintln(f.Out, "Waiting for authorization...")
}

// pollForToken polls the token endpoint until approval, denial, or expiry.
// The cadence stays at the server-assigned interval for the whole poll,
// slow_down responses included.
func (f *DeviceFlow) pollForToken(ctx context.Context, deviceResp *deviceCodeResponse) (*oauth2.Token, error) {
	ticker := time.NewTicker(time.Duration(deviceResp.Interval) * time.Second)
	defer ticker.Stop()

	deadline := time.Now().Add(time.Duration(deviceResp.ExpiresIn) * time.Second)
	pollCount := 0

	for {
		select {
		case <-ctx.Done():
			return nil, NewAuthError("device_poll", "authorization canceled").WithCause(ctx.Err())

		case <-ticker.C:
			pollCount++

			if time.Now().After(deadline) {
				return nil, NewAuthError("device_poll", "device code expired before approval").WithCause(ErrApprovalTimeout)
			}

			token, err := f.exchangeDeviceCode(ctx, deviceResp.DeviceCode)
			if err != nil {
				var pollErr *pollError
				if errors.As(err, &pollErr) {
					switch pollErr.ErrorCode {
					case "authorization_pending":
						continue
					case "slow_down":
						logger.Debug("token endpoint asked to slow down", "poll_count", pollCount)
						continue
					case "access_denied":
						return nil, NewAuthError("device_poll", "user denied access").WithCause(pollErr)
					case "expired_token":
						return nil, NewAuthError("device_poll", "device code expired before approval").WithCause(ErrApprovalTimeout)
					default:
						return nil, NewAuthError("device_poll", fmt.Sprintf("token endpoint error: %s", pollErr.ErrorCode)).WithCause(pollErr)
					}
				}
				return nil, err
			}

			logger.Debug("device authorization approved", "poll_count", pollCount)
			return token, nil
		}
	}
}

// exchangeDeviceCode trades the device code for a token. Poll-state replies
// come back as *pollError so the caller can switch on the code.
func (f *DeviceFlow) exchangeDeviceCode(ctx context.Context, deviceCode string) (*oauth2.Token, error) {
	params := url.Values{
		"client_id":     {f.ClientID},
		"client_secret": {f.ClientSecret},
		"device_code":   {deviceCode},
		"grant_type":    {deviceGrantType},
	}

	endpoint := f.TokenURL
	if endpoint == "" {
		endpoint = TokenURL
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, NewAuthError("device_exchange", "failed to create token request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, NewAuthError("device_exchange", "token request failed").WithCause(err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode == http.StatusOK {
		var tokenResp tokenResponse
		if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
			return nil, NewAuthError("device_exchange", "failed to decode token response").WithCause(err)
		}

		if tokenResp.AccessToken == "" {
			return nil, NewAuthError("device_exchange", "token response missing access token")
		}

		tok := &oauth2.Token{
			AccessToken:  tokenResp.AccessToken,
			RefreshToken: tokenResp.RefreshToken,
			TokenType:    tokenResp.TokenType,
		}
		if tokenResp.ExpiresIn > 0 {
			tok.Expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
		}
		return tok, nil
	}

	var errResp pollError
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.ErrorCode == "" {
		return nil, NewAuthError("device_exchange", fmt.Sprintf("unexpected status code %d", resp.StatusCode))
	}

	return nil, &errResp
}
