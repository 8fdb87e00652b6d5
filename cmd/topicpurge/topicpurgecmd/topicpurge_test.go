package topicpurgecmd

import (
	"bytes"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pulsar-ops/topicpurge/auth"
	"github.com/pulsar-ops/topicpurge/failure"
	mbp "github.com/pulsar-ops/topicpurge/mainboilerplate"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// cluster is a TLS test server which serves both the OAuth token endpoint
// and the topic admin API, recording each request it sees.
type cluster struct {
	*httptest.Server
	statuses map[string]int

	mu       sync.Mutex
	requests []string
}

func newCluster(t *testing.T, statuses map[string]int) *cluster {
	var c = &cluster{statuses: statuses}

	c.Server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		c.requests = append(c.requests, fmt.Sprintf("%s %s %s", r.Method, r.URL.RequestURI(), r.Header.Get("Authorization")))
		c.mu.Unlock()

		if r.URL.Path == "/oauth/token" {
			_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer"}`))
			return
		}
		var status, ok = c.statuses[r.URL.Path]
		if !ok {
			status = http.StatusNotFound
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(c.Close)

	return c
}

func (c *cluster) host() string { return strings.TrimPrefix(c.URL, "https://") }

// setup installs a MemMapFs holding |doc| as config.yaml and the test
// server's CA, and captures command output.
func setup(t *testing.T, srv *httptest.Server, doc string) (ClusterConfig, *bytes.Buffer) {
	var memFS = afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(memFS, "config.yaml", []byte(doc), 0644))

	var cc = ClusterConfig{Config: "config.yaml"}
	if srv != nil {
		require.NoError(t, afero.WriteFile(memFS, "ca.pem", pem.EncodeToMemory(&pem.Block{
			Type:  "CERTIFICATE",
			Bytes: srv.Certificate().Raw,
		}), 0644))
		cc.OAuthURL = srv.URL + "/oauth/token"
		cc.HTTP.TrustedCAFile = "ca.pem"
	}

	var out = new(bytes.Buffer)
	var prevFS, prevOut = fs, stdout
	fs, stdout = memFS, out
	BaseCfg.Log = mbp.LogConfig{Level: "warn", Format: "text"}

	t.Cleanup(func() { fs, stdout = prevFS, prevOut })
	return cc, out
}

func TestDeleteWithLiteralToken(t *testing.T) {
	var c = newCluster(t, map[string]int{
		"/admin/v2/persistent/t1/ns1/a/partitions": http.StatusNoContent,
		"/admin/v2/persistent/t1/ns1/b":            http.StatusForbidden,
	})
	var cc, out = setup(t, c.Server, fmt.Sprintf(`
pulsar:
  hostname: %s
  tenant: t1
  namespace: ns1
  topics: [a, b]
  token: tok
`, c.host()))

	var cmd = &cmdDelete{ClusterConfig: cc, Order: "partitioned-first"}
	require.NoError(t, cmd.Execute(nil))

	// No OAuth request was made.
	require.Equal(t, []string{
		"DELETE /admin/v2/persistent/t1/ns1/a/partitions?force=true Bearer tok",
		"DELETE /admin/v2/persistent/t1/ns1/b/partitions?force=true Bearer tok",
		"DELETE /admin/v2/persistent/t1/ns1/b?force=true Bearer tok",
	}, c.requests)

	require.Equal(t, `Status: 204 No Content ns1 a
Successfully deleted ns1/a
Status: 403 Forbidden ns1 b
Forbidden: Does your token have admin permissions?
`, out.String())
}

func TestDeleteWithOAuth(t *testing.T) {
	var c = newCluster(t, map[string]int{
		"/admin/v2/persistent/t1/ns1/a": http.StatusNoContent,
		"/admin/v2/persistent/t1/ns1/b": http.StatusUnauthorized,
	})
	var cc, out = setup(t, c.Server, fmt.Sprintf(`
pulsar:
  hostname: %s
  tenant: t1
  namespace: ns1
  topics: [a, b]
  oauth:
    clientId: the-client
    clientSecret: s3cret
    clientEmail: admin@o-1234.auth.streamnative.cloud
    issuerUrl: https://auth.streamnative.cloud/
    audience: urn:sn:pulsar:o-1234:instance
`, c.host()))

	var cmd = &cmdDelete{ClusterConfig: cc, Order: "non-partitioned-first", Summary: true}
	require.NoError(t, cmd.Execute(nil))

	// Exactly one OAuth request precedes all deletions, which carry its token.
	require.Equal(t, []string{
		"POST /oauth/token ",
		"DELETE /admin/v2/persistent/t1/ns1/a?force=true Bearer abc",
		"DELETE /admin/v2/persistent/t1/ns1/b?force=true Bearer abc",
	}, c.requests)

	require.True(t, strings.HasPrefix(out.String(), `Status: 204 No Content ns1 a
Successfully deleted ns1/a
Status: 401 Unauthorized ns1 b
Unauthorized
  - Are your OAuth credentials correct?
  - Does your service account have admin permissions?
  - Check your client_id, client_secret, and audience configuration.
`), out.String())
	// Followed by the summary table.
	require.Contains(t, out.String(), "non-partitioned:401")
}

func TestDeleteTokenFlagOverridesOAuth(t *testing.T) {
	var c = newCluster(t, map[string]int{
		"/admin/v2/persistent/t1/ns1/a/partitions": http.StatusNoContent,
	})
	var cc, _ = setup(t, c.Server, fmt.Sprintf(`
pulsar:
  hostname: %s
  tenant: t1
  namespace: ns1
  topics: [a]
  oauth: {clientId: c, clientSecret: s, clientEmail: e, issuerUrl: i, audience: a}
`, c.host()))
	cc.Token = "from-flag"

	require.NoError(t, (&cmdDelete{ClusterConfig: cc}).Execute(nil))
	require.Equal(t, []string{
		"DELETE /admin/v2/persistent/t1/ns1/a/partitions?force=true Bearer from-flag",
	}, c.requests)
}

func TestDeleteFailures(t *testing.T) {
	// OAuth failure aborts before any deletion.
	var c = newCluster(t, nil)
	var cc, out = setup(t, c.Server, fmt.Sprintf(`
pulsar:
  hostname: %s
  tenant: t1
  namespace: ns1
  topics: [a]
  oauth: {clientId: c, clientSecret: s, clientEmail: e, issuerUrl: i, audience: a}
`, c.host()))
	cc.OAuthURL = c.URL + "/not-the-token-endpoint"

	var err = (&cmdDelete{ClusterConfig: cc}).Execute(nil)
	require.True(t, failure.Is(err, failure.Auth))
	require.Len(t, c.requests, 1)
	require.Empty(t, out.String())

	// Transport failure aborts the loop.
	var dead = httptest.NewTLSServer(http.NotFoundHandler())
	dead.Close()

	cc, out = setup(t, c.Server, fmt.Sprintf(`
pulsar: {hostname: %q, tenant: t1, namespace: ns1, topics: [a, b], token: tok}
`, strings.TrimPrefix(dead.URL, "https://")))

	err = (&cmdDelete{ClusterConfig: cc}).Execute(nil)
	require.True(t, failure.Is(err, failure.Transport))
	require.Empty(t, out.String())

	// Config failure aborts before anything else.
	cc, _ = setup(t, nil, `pulsar: {hostname: h}`)
	err = (&cmdDelete{ClusterConfig: cc}).Execute(nil)
	require.True(t, failure.Is(err, failure.Config))
}

func TestDeleteDryRun(t *testing.T) {
	var cc, out = setup(t, nil, `
pulsar: {hostname: x.com, tenant: t1, namespace: ns1, topics: [a, b], token: tok}
`)
	cc.OAuthURL = "https://unreachable.invalid/oauth/token"

	var cmd = &cmdDelete{ClusterConfig: cc, Order: "partitioned-first", DryRun: true}
	require.NoError(t, cmd.Execute(nil))

	require.Equal(t, `DELETE https://x.com/admin/v2/persistent/t1/ns1/a/partitions?force=true
  if not found: DELETE https://x.com/admin/v2/persistent/t1/ns1/a?force=true
DELETE https://x.com/admin/v2/persistent/t1/ns1/b/partitions?force=true
  if not found: DELETE https://x.com/admin/v2/persistent/t1/ns1/b?force=true
`, out.String())
}

func TestTopicsCommand(t *testing.T) {
	// Credentials are not required.
	var cc, out = setup(t, nil, `
pulsar: {hostname: x.com, tenant: t1, namespace: ns1, topics: [a]}
`)
	require.NoError(t, (&cmdTopics{Config: cc.Config}).Execute(nil))
	require.Contains(t, out.String(), "persistent://t1/ns1/a")
	require.Contains(t, out.String(), "https://x.com/admin/v2/persistent/t1/ns1/a/partitions?force=true")
}

func TestTokenCommand(t *testing.T) {
	var signed, err = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "admin@o-1234.auth.streamnative.cloud",
		"aud":   "urn:sn:pulsar:o-1234:instance",
		"scope": "admin",
		"exp":   time.Now().Add(-3 * time.Hour).Unix(),
	}).SignedString([]byte("unverified"))
	require.NoError(t, err)

	var cc, out = setup(t, nil, `
pulsar: {hostname: x.com, tenant: t1, namespace: ns1, topics: [a]}
`)
	cc.Token = signed

	require.NoError(t, (&cmdToken{ClusterConfig: cc}).Execute(nil))
	require.Contains(t, out.String(), "Mode: token\n")
	require.Contains(t, out.String(), "Subject: admin@o-1234.auth.streamnative.cloud\n")
	require.Contains(t, out.String(), "Audience: urn:sn:pulsar:o-1234:instance\n")
	require.Contains(t, out.String(), "Scope: admin\n")
	require.Contains(t, out.String(), "(expired 3 hours ago)\n")
	require.NotContains(t, out.String(), signed)

	out.Reset()
	writeTokenDescription(&auth.Credentials{Mode: auth.ModeOAuth, Token: &oauth2.Token{AccessToken: "opaque"}}, time.Now())
	require.Equal(t, "Mode: oauth\nToken is opaque (not a JWT)\n", out.String())
}
