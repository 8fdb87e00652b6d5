package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/pulsar-ops/topicpurge/config"
	"github.com/pulsar-ops/topicpurge/failure"
	"github.com/pulsar-ops/topicpurge/metrics"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	accountType = "sn_service_account"
	grantType   = "client_credentials"
)

// NewClientCredentials returns an oauth2.TokenSource which performs a
// service-account client-credentials exchange of |creds| against |tokenURL|
// on each call to Token. Use oauth2.ReuseTokenSource to cache its result.
func NewClientCredentials(ctx context.Context, client *http.Client, tokenURL string, creds config.OAuth) oauth2.TokenSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &clientCredentials{ctx: ctx, client: client, url: tokenURL, creds: creds}
}

type clientCredentials struct {
	ctx    context.Context
	client *http.Client
	url    string
	creds  config.OAuth
}

type tokenRequest struct {
	Type         string `json:"type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	ClientEmail  string `json:"client_email"`
	IssuerURL    string `json:"issuer_url"`
	GrantType    string `json:"grant_type"`
	Audience     string `json:"audience"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   expiresIn `json:"expires_in,omitempty"`
}

// expiresIn is a lifetime in seconds. Issuers variously encode it as a
// number or a string, and a value which parses as neither is ignored.
type expiresIn int64

func (e *expiresIn) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return nil
	}
	if v, err := n.Int64(); err == nil {
		*e = expiresIn(v)
	}
	return nil
}

func (s *clientCredentials) Token() (*oauth2.Token, error) {
	var body, err = json.Marshal(tokenRequest{
		Type:         accountType,
		ClientID:     s.creds.ClientID,
		ClientSecret: s.creds.ClientSecret,
		ClientEmail:  s.creds.ClientEmail,
		IssuerURL:    s.creds.IssuerURL,
		GrantType:    grantType,
		Audience:     s.creds.Audience,
	})
	if err != nil {
		return nil, failure.Wrap(failure.Auth, "oauth", err)
	}

	req, err := http.NewRequestWithContext(s.ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, failure.Wrap(failure.Auth, "oauth", err)
	}
	req.Header.Set("content-type", "application/json")

	log.WithFields(log.Fields{
		"url":      s.url,
		"clientId": s.creds.ClientID,
		"audience": s.creds.Audience,
	}).Info("requesting OAuth token")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.OAuthRequestsTotal.WithLabelValues(metrics.Fail).Inc()
		return nil, failure.Wrap(failure.Auth, "oauth", errors.WithMessage(err, "OAuth request failed"))
	}
	defer resp.Body.Close()

	metrics.OAuthRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, failure.Newf(failure.Auth, "oauth", "OAuth request failed with status: %s", resp.Status)
	}

	var tr tokenResponse
	if err = json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, failure.Wrap(failure.Auth, "oauth", errors.WithMessage(err, "decoding OAuth response"))
	} else if tr.AccessToken == "" {
		return nil, failure.New(failure.Auth, "oauth", "OAuth response is missing access_token")
	}

	var tok = &oauth2.Token{AccessToken: tr.AccessToken, TokenType: tr.TokenType}
	if tr.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return tok, nil
}
