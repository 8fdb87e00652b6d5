package topicpurgecmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pulsar-ops/topicpurge/auth"
	mbp "github.com/pulsar-ops/topicpurge/mainboilerplate"
)

type cmdToken struct {
	ClusterConfig
}

func init() {
	CommandRegistry.AddCommand("", "token", "Resolve and describe the bearer token", `
Resolve the bearer token exactly as 'delete' would, performing an OAuth
client-credentials exchange if the config document doesn't carry a literal
token. Then describe the token: how it was obtained and, if it's a JWT, its
subject, audience, scope, and expiry. The token itself is not printed.
`, &cmdToken{})
}

func (cmd *cmdToken) Execute([]string) error {
	startup()
	defer mbp.WriteMetrics(BaseCfg.Metrics)

	var cfg, err = cmd.load()
	if err != nil {
		return err
	}
	base, err := cmd.httpClient()
	if err != nil {
		return err
	}
	var resolver = &auth.Resolver{Client: base, TokenURL: cmd.OAuthURL}

	creds, err := resolver.Resolve(context.Background(), cfg.Pulsar)
	if err != nil {
		return err
	}
	writeTokenDescription(creds, time.Now())
	return nil
}

func writeTokenDescription(creds *auth.Credentials, now time.Time) {
	fmt.Fprintf(stdout, "Mode: %s\n", creds.Mode)

	var claims, ok = auth.Inspect(creds.Token.AccessToken)
	if !ok {
		fmt.Fprintln(stdout, "Token is opaque (not a JWT)")
		return
	}
	fmt.Fprintf(stdout, "Subject: %s\n", claims.Subject)
	fmt.Fprintf(stdout, "Audience: %s\n", strings.Join(claims.Audience, ","))
	fmt.Fprintf(stdout, "Scope: %s\n", claims.Scope)

	if desc := claims.DescribeExpiry(now); desc != "" {
		fmt.Fprintf(stdout, "Expiry: %s (%s)\n", claims.ExpiresAt.UTC().Format(time.RFC3339), desc)
	} else {
		fmt.Fprintln(stdout, "Expiry: none")
	}
}
