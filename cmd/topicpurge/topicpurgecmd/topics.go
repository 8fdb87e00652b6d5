package topicpurgecmd

import (
	"github.com/pulsar-ops/topicpurge/admin"
	"github.com/pulsar-ops/topicpurge/config"
)

type cmdTopics struct {
	Config string `long:"config" env:"TOPICPURGE_CONFIG" default:"config.yaml" description:"Path to the YAML document naming the cluster, namespace, topics and credentials"`
}

func init() {
	CommandRegistry.AddCommand("", "topics", "List configured topics and their admin routes", `
List each topic of the config document along with the partitioned and
non-partitioned admin API routes which 'delete' would use. No requests are made,
and credentials are not required.
`, &cmdTopics{})
}

func (cmd *cmdTopics) Execute([]string) error {
	startup()

	var cfg, err = config.Read(fs, cmd.Config)
	if err != nil {
		return err
	}
	if err = cfg.ValidateTopics(); err != nil {
		return err
	}
	admin.WriteRoutes(stdout, cfg.Pulsar.Hostname, admin.TopicNames(cfg.Pulsar))
	return nil
}
