package metrics

import (
	"context"
	"fmt"

	vm "github.com/VictoriaMetrics/metrics"

	"github.com/saradhi4688/qrngenv/log"
	"github.com/saradhi4688/qrngenv/modules"
)

// errorReports receives module error reports, mostly recovered worker panics.
// Reports are dropped when the channel is full, counting must never block a
// reporting module.
var errorReports = make(chan *modules.ModuleError, 16)

func registerErrorReporting() {
	modules.SetErrorReportingChannel(errorReports)
}

func errorReportWorker(ctx context.Context) error {
	for {
		select {
		case report := <-errorReports:
			vm.GetOrCreateCounter(
				fmt.Sprintf("qrngenv_module_errors_total{module=%q, severity=%q}", report.ModuleName, report.Severity),
			).Inc()
			log.Debugf("metrics: recorded %s report from module %s", report.Severity, report.ModuleName)

		case <-ctx.Done():
			return nil
		}
	}
}
