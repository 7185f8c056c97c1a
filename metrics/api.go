package metrics

import (
	"github.com/saradhi4688/qrngenv/api"
)

func registerAPIEndpoint() {
	// Prometheus scrapers expect the metrics endpoint at the root path.
	api.RegisterHandleFunc("/metrics", HandleMetrics).Methods("GET", "HEAD")
}
