package admin

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// WriteSummary writes a table of |results| to |w|.
func WriteSummary(w io.Writer, results []Result) {
	var table = tablewriter.NewWriter(w)
	table.Header("Topic", "Attempts", "Status", "Outcome")

	for _, r := range results {
		var attempts []string
		for _, a := range r.Attempts {
			attempts = append(attempts, fmt.Sprintf("%s:%d", a.Form, a.Status))
		}
		table.Append([]string{
			r.Topic.String(),
			strings.Join(attempts, ","),
			fmt.Sprintf("%d", r.Status),
			r.Outcome.String(),
		})
	}
	table.Render()
}

// WriteRoutes writes a table of the admin API routes of |topics| at |host|.
func WriteRoutes(w io.Writer, host string, topics []TopicName) {
	var table = tablewriter.NewWriter(w)
	table.Header("Topic", "Partitioned", "Non-Partitioned")

	for _, t := range topics {
		table.Append([]string{
			t.String(),
			URI(host, t, Partitioned),
			URI(host, t, NonPartitioned),
		})
	}
	table.Render()
}
