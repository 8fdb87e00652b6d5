// Package config loads the YAML document naming the cluster, namespace and
// topics to delete, and the credentials used to delete them.
package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/pulsar-ops/topicpurge/failure"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

// Config is the root configuration document.
type Config struct {
	Pulsar PulsarConfig `yaml:"pulsar"`
}

// PulsarConfig addresses topics of a single tenant namespace, and carries
// either a literal bearer Token or an OAuth credential bundle.
type PulsarConfig struct {
	Hostname  string   `yaml:"hostname"`
	Tenant    string   `yaml:"tenant"`
	Namespace string   `yaml:"namespace"`
	Topics    []string `yaml:"topics"`
	Token     string   `yaml:"token,omitempty"`
	OAuth     *OAuth   `yaml:"oauth,omitempty"`
}

// OAuth is a service-account credential bundle, used once to build a
// client-credentials token exchange.
type OAuth struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	ClientEmail  string `yaml:"clientEmail"`
	IssuerURL    string `yaml:"issuerUrl"`
	Audience     string `yaml:"audience"`
}

// Load reads and validates the Config at |path| of |fs|.
func Load(fs afero.Fs, path string) (*Config, error) {
	var cfg, err = Read(fs, path)
	if err != nil {
		return nil, err
	} else if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes the Config at |path| of |fs| without validating it, so that
// callers may apply overrides first.
func Read(fs afero.Fs, path string) (*Config, error) {
	var b, err = afero.ReadFile(fs, path)
	if os.IsNotExist(err) {
		return nil, failure.Wrap(failure.Config, "load",
			errors.Errorf("config file %q does not exist", path))
	} else if err != nil {
		return nil, failure.Wrap(failure.Config, "load", errors.WithMessage(err, "reading config"))
	}
	return decode(b)
}

// Parse decodes and validates a YAML Config document.
func Parse(b []byte) (*Config, error) {
	var cfg, err = decode(b)
	if err != nil {
		return nil, err
	} else if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Unknown keys are rejected, as they're most likely a typo of a known one.
func decode(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return nil, failure.Wrap(failure.Config, "decode", err)
	}
	return &cfg, nil
}

// Validate returns a failure.Config error if the Config is incomplete.
func (c *Config) Validate() error {
	if err := c.ValidateTopics(); err != nil {
		return err
	}
	var p = &c.Pulsar

	if p.Token != "" {
		return nil
	} else if p.OAuth == nil {
		return failure.New(failure.Config, "validate", "one of pulsar.token or pulsar.oauth is required")
	}
	return p.OAuth.Validate()
}

// ValidateTopics validates the addressing of the Config, ignoring credentials.
func (c *Config) ValidateTopics() error {
	var p = &c.Pulsar

	if p.Hostname == "" {
		return failure.New(failure.Config, "validate", "pulsar.hostname is required")
	} else if p.Tenant == "" {
		return failure.New(failure.Config, "validate", "pulsar.tenant is required")
	} else if p.Namespace == "" {
		return failure.New(failure.Config, "validate", "pulsar.namespace is required")
	} else if len(p.Topics) == 0 {
		return failure.New(failure.Config, "validate", "pulsar.topics must name at least one topic")
	}
	for i, t := range p.Topics {
		if t == "" {
			return failure.Newf(failure.Config, "validate", "pulsar.topics[%d] is empty", i)
		}
	}
	return nil
}

// Validate returns a failure.Config error if the OAuth bundle is incomplete.
func (o *OAuth) Validate() error {
	for _, f := range []struct {
		name, value string
	}{
		{"clientId", o.ClientID},
		{"clientSecret", o.ClientSecret},
		{"clientEmail", o.ClientEmail},
		{"issuerUrl", o.IssuerURL},
		{"audience", o.Audience},
	} {
		if f.value == "" {
			return failure.Newf(failure.Config, "validate", "pulsar.oauth.%s is required", f.name)
		}
	}
	return nil
}
