package admin

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	"github.com/pulsar-ops/topicpurge/config"
)

// TopicName is a fully-qualified persistent topic of a tenant namespace.
type TopicName struct {
	Tenant    string
	Namespace string
	Topic     string
}

// TopicNames of |cfg|, in configured order.
func TopicNames(cfg config.PulsarConfig) []TopicName {
	var out = make([]TopicName, 0, len(cfg.Topics))
	for _, t := range cfg.Topics {
		out = append(out, TopicName{Tenant: cfg.Tenant, Namespace: cfg.Namespace, Topic: t})
	}
	return out
}

func (t TopicName) String() string {
	return fmt.Sprintf("persistent://%s/%s/%s", t.Tenant, t.Namespace, t.Topic)
}

// Path of the topic within the admin API. Components are interpolated as-is.
func (t TopicName) Path() string {
	return fmt.Sprintf("/admin/v2/persistent/%s/%s/%s", t.Tenant, t.Namespace, t.Topic)
}

// Form of a topic, which determines its admin API route.
type Form int

const (
	// Partitioned topics are addressed under a "/partitions" suffix.
	Partitioned Form = iota
	// NonPartitioned topics are addressed by their bare path.
	NonPartitioned
)

func (f Form) String() string {
	if f == NonPartitioned {
		return "non-partitioned"
	}
	return "partitioned"
}

// Other returns the Form which isn't |f|.
func (f Form) Other() Form {
	if f == Partitioned {
		return NonPartitioned
	}
	return Partitioned
}

// Order in which Forms are attempted. Only the first Form is attempted
// unless it's reported as not found, in which case the second is attempted.
type Order [2]Form

var (
	// PartitionedFirst is the default Order.
	PartitionedFirst = Order{Partitioned, NonPartitioned}
	// NonPartitionedFirst attempts the bare topic path first.
	NonPartitionedFirst = Order{NonPartitioned, Partitioned}
)

// ParseOrder parses "partitioned-first" or "non-partitioned-first".
func ParseOrder(s string) (Order, error) {
	switch s {
	case "partitioned-first", "":
		return PartitionedFirst, nil
	case "non-partitioned-first":
		return NonPartitionedFirst, nil
	default:
		return Order{}, errors.Errorf("unknown delete order %q", s)
	}
}

func (o Order) String() string { return o[0].String() + "-first" }

// deleteParams are query parameters of a topic DELETE.
type deleteParams struct {
	Force bool `schema:"force"`
}

var queryEncoder = schema.NewEncoder()

// URI of the |form| of |topic| at admin API |host|, including the
// query which forces deletion.
func URI(host string, topic TopicName, form Form) string {
	var path = topic.Path()
	if form == Partitioned {
		path += "/partitions"
	}

	var query = make(url.Values)
	if err := queryEncoder.Encode(deleteParams{Force: true}, query); err != nil {
		panic(err) // deleteParams always encodes.
	}
	return fmt.Sprintf("https://%s%s?%s", host, path, query.Encode())
}
