package mainboilerplate

import (
	"crypto/tls"
	"crypto/x509"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/pulsar-ops/topicpurge/failure"
	"github.com/spf13/afero"
)

// HTTPConfig configures the HTTP client shared by OAuth and admin requests.
type HTTPConfig struct {
	Timeout       time.Duration `long:"timeout" env:"TIMEOUT" default:"0s" description:"Timeout of each HTTP request. Zero means no timeout"`
	TrustedCAFile string        `long:"trusted-ca-file" env:"TRUSTED_CA_FILE" default:"" description:"Path to a PEM bundle of additional CAs trusted for server verification"`
}

// BuildClient returns an http.Client of the HTTPConfig. A TrustedCAFile
// is read from |fs|.
func (c *HTTPConfig) BuildClient(fs afero.Fs) (*http.Client, error) {
	var client = &http.Client{Timeout: c.Timeout}

	if c.TrustedCAFile == "" {
		return client, nil
	}
	var pem, err = afero.ReadFile(fs, c.TrustedCAFile)
	if err != nil {
		return nil, failure.Wrap(failure.Config, "http", errors.WithMessage(err, "reading trusted CA file"))
	}

	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, failure.Newf(failure.Config, "http", "no certificates found in %s", c.TrustedCAFile)
	}

	var transport = http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{RootCAs: pool}
	client.Transport = transport

	return client, nil
}
