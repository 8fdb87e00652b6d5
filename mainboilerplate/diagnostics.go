package mainboilerplate

import (
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Version and BuildDate are populated at build time via -ldflags.
var (
	Version   = "development"
	BuildDate = "unknown"
)

// MetricsConfig configures export of the metrics of a single run.
type MetricsConfig struct {
	Textfile string `long:"textfile" env:"TEXTFILE" description:"If set, write Prometheus metrics of the run to this path on exit, in node_exporter textfile collector format"`
}

// WriteMetrics writes metrics of the default registry to the configured
// Textfile, if any. Failures are logged but are not fatal.
func WriteMetrics(cfg MetricsConfig) {
	if cfg.Textfile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(cfg.Textfile, prometheus.DefaultGatherer); err != nil {
		log.WithFields(log.Fields{"err": err, "path": cfg.Textfile}).Warn("failed to write metrics textfile")
	}
}

// Must panics if |err| is non-nil, supplying |msg| and |extra| as
// formatter and fields of the generated panic.
func Must(err error, msg string, extra ...interface{}) {
	if err == nil {
		return
	}
	var f = log.Fields{"err": err}
	for i := 0; i+1 < len(extra); i += 2 {
		f[extra[i].(string)] = extra[i+1]
	}
	log.WithFields(f).Panic(msg)
}
