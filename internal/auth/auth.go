// Package auth provides Spotify client-credentials authentication.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	// ErrMissingCredentials is returned when the client ID or secret is not set.
	ErrMissingCredentials = errors.New("missing CLIENT_ID or CLIENT_SECRET")
)

// Authenticator obtains app-level access tokens for the Spotify Web API.
type Authenticator struct {
	config     *clientcredentials.Config
	httpClient *http.Client
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithTokenURL overrides the token endpoint.
func WithTokenURL(url string) Option {
	return func(a *Authenticator) {
		a.config.TokenURL = url
	}
}

// WithHTTPClient sets the HTTP client used for token requests and as the
// base transport for API calls.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Authenticator) {
		a.httpClient = c
	}
}

// New creates an Authenticator for the given app credentials.
// Returns ErrMissingCredentials if either value is empty.
func New(clientID, clientSecret string, opts ...Option) (*Authenticator, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}

	a := &Authenticator{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyauth.TokenURL,
		},
	}
	for _, opt := range opts {
		opt(a)
	}

	return a, nil
}

// Verify performs the credential handshake once so that bad credentials
// surface at startup instead of on the first request.
func (a *Authenticator) Verify(ctx context.Context) error {
	if _, err := a.config.Token(a.context(ctx)); err != nil {
		return fmt.Errorf("requesting client credentials token: %w", err)
	}
	return nil
}

// Client returns a Spotify client whose requests carry an app access token.
// Tokens are fetched lazily and refreshed when they expire; ctx must outlive
// the returned client.
func (a *Authenticator) Client(ctx context.Context, opts ...spotify.ClientOption) *spotify.Client {
	return spotify.New(a.config.Client(a.context(ctx)), opts...)
}

// context attaches the custom HTTP client, if any, for the oauth2 package.
func (a *Authenticator) context(ctx context.Context) context.Context {
	if a.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
}
