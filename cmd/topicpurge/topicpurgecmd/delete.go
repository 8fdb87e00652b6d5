package topicpurgecmd

import (
	"context"

	"github.com/pulsar-ops/topicpurge/admin"
	"github.com/pulsar-ops/topicpurge/auth"
	mbp "github.com/pulsar-ops/topicpurge/mainboilerplate"
	log "github.com/sirupsen/logrus"
)

type cmdDelete struct {
	ClusterConfig
	Order   string `long:"order" default:"partitioned-first" choice:"partitioned-first" choice:"non-partitioned-first" description:"Topic form to attempt first. The other form is attempted only if the first isn't found"`
	DryRun  bool   `long:"dry-run" description:"Print the DELETE requests which would be issued, without authenticating or issuing them"`
	Summary bool   `long:"summary" description:"Print a table summarizing each topic's attempts and outcome"`
}

func init() {
	CommandRegistry.AddCommand("", "delete", "Delete configured topics", `
Delete each topic of the config document, in order.

Each topic is first deleted as a partitioned topic. If the cluster reports it
isn't found in that form, it's deleted as a non-partitioned topic instead
(use --order to reverse this). A status line and guidance are printed for
every topic. Authorization failures and missing topics do not stop the run,
and do not change the exit status. Failure to load configuration, obtain a
token, or reach the cluster aborts the run with a non-zero exit status.

Given a config.yaml of:

  pulsar:
    hostname: my-cluster.example.com
    tenant: public
    namespace: default
    topics: [orders, payments]
    oauth:
      clientId: ...
      clientSecret: ...
      clientEmail: ...
      issuerUrl: https://auth.streamnative.cloud/
      audience: urn:sn:pulsar:...

Delete its topics:
>    topicpurge delete --config config.yaml --summary
`, &cmdDelete{})
}

func (cmd *cmdDelete) Execute([]string) error {
	startup()
	defer mbp.WriteMetrics(BaseCfg.Metrics)

	var ctx = context.Background()

	var cfg, err = cmd.load()
	if err != nil {
		return err
	}
	order, err := admin.ParseOrder(cmd.Order)
	if err != nil {
		return err
	}
	var topics = admin.TopicNames(cfg.Pulsar)

	if cmd.DryRun {
		admin.WritePlan(stdout, cfg.Pulsar.Hostname, order, topics)
		return nil
	}

	base, err := cmd.httpClient()
	if err != nil {
		return err
	}
	var resolver = &auth.Resolver{Client: base, TokenURL: cmd.OAuthURL}

	creds, err := resolver.Resolve(ctx, cfg.Pulsar)
	if err != nil {
		return err
	}

	var deleter = &admin.Deleter{
		Client: &admin.Client{
			HTTP: creds.Client(base),
			Host: cfg.Pulsar.Hostname,
		},
		Order:       order,
		Credentials: creds,
		Out:         stdout,
	}
	log.WithFields(log.Fields{
		"host":   cfg.Pulsar.Hostname,
		"topics": len(topics),
		"order":  order,
	}).Info("deleting topics")

	results, err := deleter.Run(ctx, topics)
	if cmd.Summary && len(results) != 0 {
		admin.WriteSummary(stdout, results)
	}
	return err
}
