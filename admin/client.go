package admin

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/pulsar-ops/topicpurge/failure"
	"github.com/pulsar-ops/topicpurge/metrics"
	log "github.com/sirupsen/logrus"
)

const acceptHeader = "application/json, text/plain, */*"

// Client of the cluster admin API. HTTP is expected to attach bearer
// authorization to each request (see auth.Credentials.Client).
type Client struct {
	HTTP *http.Client
	Host string
}

// Delete the |form| of |topic|, returning the response status code.
// Failures to build or send the request are failure.Transport errors.
func (c *Client) Delete(ctx context.Context, topic TopicName, form Form) (int, error) {
	var uri = URI(c.Host, topic, form)

	var req, err = http.NewRequestWithContext(ctx, http.MethodDelete, uri, nil)
	if err != nil {
		return 0, failure.Wrap(failure.Transport, "DELETE", err)
	}
	req.Header.Set("Accept", acceptHeader)

	log.WithFields(log.Fields{"uri": uri, "form": form}).Info("deleting topic")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		metrics.DeleteRequestsTotal.WithLabelValues(form.String(), metrics.Fail).Inc()
		return 0, failure.Wrap(failure.Transport, "DELETE", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	metrics.DeleteRequestsTotal.WithLabelValues(form.String(), strconv.Itoa(resp.StatusCode)).Inc()
	return resp.StatusCode, nil
}
