// Package topicpurgecmd implements the sub-commands of the topicpurge tool.
package topicpurgecmd

import (
	"io"
	"net/http"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pulsar-ops/topicpurge/config"
	mbp "github.com/pulsar-ops/topicpurge/mainboilerplate"
	"github.com/spf13/afero"
)

const iniFilename = "topicpurge.ini"

var (
	// BaseCfg is configuration shared by all sub-commands.
	BaseCfg = new(struct {
		Log     mbp.LogConfig     `group:"Logging" namespace:"log" env-namespace:"LOG"`
		Metrics mbp.MetricsConfig `group:"Metrics" namespace:"metrics" env-namespace:"METRICS"`
	})
	// CommandRegistry of topicpurge sub-commands.
	CommandRegistry = mbp.NewCommandRegistry()

	// Filesystem and output of commands. Tests swap these.
	fs     = afero.NewOsFs()
	stdout io.Writer = os.Stdout
)

// ClusterConfig is common configuration of commands which address the cluster.
type ClusterConfig struct {
	Config   string         `long:"config" env:"TOPICPURGE_CONFIG" default:"config.yaml" description:"Path to the YAML document naming the cluster, namespace, topics and credentials"`
	Token    string         `long:"token" env:"TOPICPURGE_TOKEN" no-ini:"true" description:"Bearer token to use, overriding pulsar.token and pulsar.oauth of the config document"`
	OAuthURL string         `long:"oauth-url" env:"TOPICPURGE_OAUTH_URL" default:"https://auth.streamnative.cloud/oauth/token" description:"OAuth token endpoint for client-credentials exchange"`
	HTTP     mbp.HTTPConfig `group:"HTTP" namespace:"http" env-namespace:"TOPICPURGE_HTTP"`
}

// load the config document, applying a --token override.
func (c *ClusterConfig) load() (*config.Config, error) {
	var cfg, err = config.Read(fs, c.Config)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		cfg.Pulsar.Token = c.Token
		cfg.Pulsar.OAuth = nil
	}
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *ClusterConfig) httpClient() (*http.Client, error) {
	return c.HTTP.BuildClient(fs)
}

func startup() {
	mbp.InitLog(BaseCfg.Log)
}

// Execute parses configuration and runs the selected sub-command.
func Execute() {
	var parser = flags.NewParser(BaseCfg, flags.Default)

	mbp.AddPrintConfigCmd(parser, iniFilename)
	parser.LongDescription = `topicpurge deletes a configured list of topics from a Pulsar cluster's admin API.

	Topics, their tenant and namespace, and credentials are read from a YAML document
	(see --config of each sub-command). Optionally configure topicpurge itself with a
	'` + iniFilename + `' file in the current working directory, or with
	'~/.config/topicpurge/` + iniFilename + `'. Use the 'print-config' sub-command to
	inspect the tool's current configuration.
	`
	mbp.Must(CommandRegistry.AddCommands("", parser.Command, true), "could not add sub-command")
	mbp.MustParseConfig(parser, iniFilename)
}
