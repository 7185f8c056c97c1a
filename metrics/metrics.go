// Package metrics exposes host and runtime metrics in prometheus text format.
package metrics

import (
	"fmt"
	"io"
	"net/http"
	"time"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/saradhi4688/qrngenv/info"
	"github.com/saradhi4688/qrngenv/modules"
)

var (
	module *modules.Module

	started time.Time
)

func init() {
	module = modules.Register("metrics", prep, start, nil, "config")
}

func prep() error {
	registerAPIEndpoint()
	registerErrorReporting()
	return nil
}

func start() error {
	started = time.Now()

	registerInfoMetric()
	registerHostMetrics()
	module.StartServiceWorker("module error reports", 0, errorReportWorker)
	return nil
}

func registerInfoMetric() {
	vm.GetOrCreateGauge(
		fmt.Sprintf(`qrngenv_info{version=%q, commit=%q}`, info.Version(), info.GetInfo().Commit),
		func() float64 { return 1 },
	)
	vm.GetOrCreateGauge(`qrngenv_uptime_seconds`, func() float64 {
		return time.Since(started).Seconds()
	})
}

// WriteMetrics writes all registered metrics to w, including go runtime and
// process metrics.
func WriteMetrics(w io.Writer) {
	vm.WritePrometheus(w, true)
}

// HandleMetrics serves all registered metrics in prometheus text format.
func HandleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	WriteMetrics(w)
}
