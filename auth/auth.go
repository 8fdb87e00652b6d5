// Package auth resolves the bearer token used for admin API requests, either
// from a literal configured token or from a single OAuth client-credentials
// exchange.
package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/pulsar-ops/topicpurge/config"
	"github.com/pulsar-ops/topicpurge/failure"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// DefaultTokenURL is the OAuth token endpoint of StreamNative Cloud.
const DefaultTokenURL = "https://auth.streamnative.cloud/oauth/token"

// Mode is the means by which a token was obtained.
type Mode int

const (
	// ModeToken is a literal, pre-issued token.
	ModeToken Mode = iota
	// ModeOAuth is a token obtained by OAuth client-credentials exchange.
	ModeOAuth
)

func (m Mode) String() string {
	if m == ModeOAuth {
		return "oauth"
	}
	return "token"
}

// Resolver produces Credentials from configuration.
type Resolver struct {
	// Client used for the OAuth exchange.
	Client *http.Client
	// TokenURL of the OAuth exchange. If empty, DefaultTokenURL is used.
	TokenURL string
}

// Credentials are a resolved bearer Token and the Mode which produced it.
type Credentials struct {
	Mode  Mode
	Token *oauth2.Token
}

// Resolve Credentials from |cfg|. A literal token is returned as-is without
// any network request. Otherwise, exactly one OAuth request is made.
func (r *Resolver) Resolve(ctx context.Context, cfg config.PulsarConfig) (*Credentials, error) {
	var src oauth2.TokenSource
	var mode Mode

	switch {
	case cfg.Token != "":
		src = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token, TokenType: "Bearer"})
		mode = ModeToken
	case cfg.OAuth != nil:
		var url = r.TokenURL
		if url == "" {
			url = DefaultTokenURL
		}
		src = NewClientCredentials(ctx, r.Client, url, *cfg.OAuth)
		mode = ModeOAuth
	default:
		return nil, failure.New(failure.Config, "resolve", "neither a token nor OAuth credentials are configured")
	}

	var tok, err = src.Token()
	if err != nil {
		return nil, err
	}
	var creds = &Credentials{Mode: mode, Token: tok}
	creds.logClaims(time.Now())

	return creds, nil
}

// Client returns an http.Client which behaves as |base|, but attaches an
// `Authorization: Bearer` header of the resolved token to every request.
// |base| may be nil, in which case http.DefaultClient is used.
//
// Redirects are not followed. The transport would attach the token to every
// hop regardless of its host, so a 3xx response is returned as-is instead.
func (c *Credentials) Client(base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(c.Token),
			Base:   base.Transport,
		},
		CheckRedirect: refuseRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
}

func refuseRedirect(req *http.Request, via []*http.Request) error {
	log.WithFields(log.Fields{
		"from": via[len(via)-1].URL.String(),
		"to":   req.URL.String(),
	}).Warn("not following redirect of an authorized request")
	return http.ErrUseLastResponse
}

func (c *Credentials) logClaims(now time.Time) {
	var claims, ok = Inspect(c.Token.AccessToken)
	var fields = log.Fields{"mode": c.Mode}

	if ok {
		fields["subject"] = claims.Subject
		if !claims.ExpiresAt.IsZero() {
			fields["expires"] = claims.ExpiresAt
		}
	}
	log.WithFields(fields).Info("resolved bearer token")

	if ok && claims.Expired(now) {
		log.WithFields(fields).Warn("bearer token has already expired; requests will likely be unauthorized")
	}
}
