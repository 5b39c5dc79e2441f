package auth

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gclass "google.golang.org/api/classroom/v1"
)

// OAuth 2.0 endpoints and local callback coordinates. The callback address
// is fixed; it must match the loopback redirect registered for the OAuth
// client.
const (
	DeviceAuthURL = "https://oauth2.googleapis.com/device/code"
	TokenURL      = "https://oauth2.googleapis.com/token"

	CallbackAddr = "127.0.0.1:8089"
	CallbackPath = "/oauth2callback"
)

// Scopes is the fixed read-only scope set both flows request. The poller
// never writes to Classroom.
var Scopes = []string{
	gclass.ClassroomCoursesReadonlyScope,
	gclass.ClassroomCourseworkMeReadonlyScope,
	gclass.ClassroomAnnouncementsReadonlyScope,
}

// OAuthConfig assembles the client configuration the flows and the API
// client share.
func OAuthConfig(clientID, clientSecret string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       Scopes,
		RedirectURL:  "http://" + CallbackAddr + CallbackPath,
	}
}
