// Package admin deletes topics through the cluster's HTTP admin API. Each
// topic is first deleted under one Form and, if that Form isn't found, under
// the other. The final status code of each topic is classified and reported.
package admin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pulsar-ops/topicpurge/auth"
	"github.com/pulsar-ops/topicpurge/metrics"
	log "github.com/sirupsen/logrus"
)

// Attempt is a single DELETE request of a topic.
type Attempt struct {
	Form   Form
	Status int
}

// Result of deleting a topic. Status is that of the last Attempt.
type Result struct {
	Topic    TopicName
	Attempts []Attempt
	Status   int
	Outcome  Outcome
}

// Deleter runs the topic deletion loop.
type Deleter struct {
	Client *Client
	Order  Order
	// Credentials used by Client. They select the guidance printed
	// for authorization failures, and may be nil.
	Credentials *auth.Credentials
	// Out receives human-readable per-topic reports.
	Out io.Writer
	// Now returns the current time. If nil, time.Now is used.
	Now func() time.Time
}

// Run deletes |topics| one at a time, in order, and reports each outcome to
// Out. Per-topic outcomes are never errors. A failure.Transport error aborts
// the run, and Results of topics completed prior to the failure are returned.
func (d *Deleter) Run(ctx context.Context, topics []TopicName) ([]Result, error) {
	var results = make([]Result, 0, len(topics))

	for _, topic := range topics {
		var result, err = d.Delete(ctx, topic)
		if err != nil {
			return results, err
		}
		d.report(result)
		results = append(results, result)
	}
	return results, nil
}

// Delete a single |topic|, falling back to its other Form if the first
// attempted Form isn't found.
func (d *Deleter) Delete(ctx context.Context, topic TopicName) (Result, error) {
	var result = Result{Topic: topic}
	var order = d.Order
	if order[0] == order[1] {
		order = PartitionedFirst // Zero-valued Order.
	}

	for i, form := range order {
		if i != 0 {
			log.WithFields(log.Fields{
				"topic": topic.String(),
				"from":  order[0],
				"to":    form,
			}).Warn("404 when hitting delete route. Trying the other route now.")
		}

		var status, err = d.Client.Delete(ctx, topic, form)
		if err != nil {
			return result, err
		}
		result.Attempts = append(result.Attempts, Attempt{Form: form, Status: status})
		result.Status = status

		if status != http.StatusNotFound {
			break
		}
	}
	result.Outcome = Classify(result.Status)
	metrics.TopicOutcomesTotal.WithLabelValues(result.Outcome.String()).Inc()

	return result, nil
}

func (d *Deleter) report(r Result) {
	var now = time.Now
	if d.Now != nil {
		now = d.Now
	}
	var status = strconv.Itoa(r.Status)
	if text := http.StatusText(r.Status); text != "" {
		status += " " + text
	}
	fmt.Fprintf(d.Out, "Status: %s %s %s\n", status, r.Topic.Namespace, r.Topic.Topic)
	fmt.Fprintln(d.Out, Guidance(r.Outcome, r.Topic, d.Credentials, now()))
}

// WritePlan writes the DELETE requests which Order |order| would issue
// for |topics| at |host|, without issuing any of them.
func WritePlan(w io.Writer, host string, order Order, topics []TopicName) {
	for _, topic := range topics {
		fmt.Fprintf(w, "DELETE %s\n", URI(host, topic, order[0]))
		fmt.Fprintf(w, "  if not found: DELETE %s\n", URI(host, topic, order[1]))
	}
}
