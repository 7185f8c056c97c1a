package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/saradhi4688/qrngenv/config"
	"github.com/saradhi4688/qrngenv/info"
	"github.com/saradhi4688/qrngenv/modules"
)

func registerMetaEndpoints() error {
	if err := RegisterEndpoint(Endpoint{
		Path:        "endpoints",
		MimeType:    MimeTypeJSON,
		DataFunc:    listEndpoints,
		Name:        "Export API Endpoints",
		Description: "Returns a list of all registered endpoints and their metadata.",
	}); err != nil {
		return err
	}

	if err := RegisterEndpoint(Endpoint{
		Path:        "ping",
		ActionFunc:  ping,
		Name:        "Ping",
		Description: "Pings the service to check if it is alive.",
	}); err != nil {
		return err
	}

	if err := RegisterEndpoint(Endpoint{
		Path:        "ready",
		ActionFunc:  ready,
		Name:        "Ready",
		Description: "Checks if the service is completely started and ready for requests.",
	}); err != nil {
		return err
	}

	if err := RegisterEndpoint(Endpoint{
		Path:        "version",
		ActionFunc:  version,
		Name:        "Version",
		Description: "Returns the version of the service.",
	}); err != nil {
		return err
	}

	if err := RegisterEndpoint(Endpoint{
		Path:        "modules/status",
		MimeType:    MimeTypeJSON,
		StructFunc:  moduleStatus,
		Name:        "Module Status",
		Description: "Returns status information of all modules.",
	}); err != nil {
		return err
	}

	if err := RegisterEndpoint(Endpoint{
		Path:     "config/options",
		MimeType: MimeTypeJSON,
		DataFunc: listConfig,
		Name:     "Export Config Options",
		Description: "Returns all registered configuration options with their " +
			"current values, optionally filtered by the prefix query parameter.",
	}); err != nil {
		return err
	}

	return nil
}

func listEndpoints(ar *Request) (data []byte, err error) {
	data, err = json.MarshalIndent(ExportEndpoints(), "", "  ")
	return
}

func listConfig(ar *Request) (data []byte, err error) {
	return config.ExportOptions(ar.Request.URL.Query().Get("prefix"))
}

func ping(ar *Request) (msg string, err error) {
	return "Pong.", nil
}

func ready(ar *Request) (msg string, err error) {
	select {
	case <-modules.ShuttingDown():
		return "", ErrorWithStatus(errors.New("shutting down"), http.StatusServiceUnavailable)
	default:
	}
	if !modules.StartCompleted() {
		return "", ErrorWithStatus(errors.New("not ready yet"), http.StatusServiceUnavailable)
	}
	return "Ready.", nil
}

func version(ar *Request) (msg string, err error) {
	return info.FullVersion(), nil
}

func moduleStatus(ar *Request) (interface{}, error) {
	return modules.GetStatus(), nil
}
