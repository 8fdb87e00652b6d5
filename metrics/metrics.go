package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for requests which failed without a response.
const Fail = "error"

// Collectors of topicpurge runs.
var (
	DeleteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topicpurge_delete_requests_total",
		Help: "Total number of topic DELETE requests, by topic form and response status code.",
	}, []string{"form", "code"})

	TopicOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topicpurge_topic_outcomes_total",
		Help: "Total number of topics processed, by final outcome.",
	}, []string{"outcome"})

	OAuthRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "topicpurge_oauth_requests_total",
		Help: "Total number of OAuth token requests, by response status code.",
	}, []string{"code"})
)
