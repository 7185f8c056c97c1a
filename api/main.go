package api

import (
	"context"
	"errors"
	"time"

	"github.com/saradhi4688/qrngenv/modules"
)

var module *modules.Module

func init() {
	module = modules.Register("api", prep, start, stop, "config")
}

func prep() error {
	if getDefaultListenAddress() == "" {
		return errors.New("no default listen address for api available")
	}

	if err := registerConfig(); err != nil {
		return err
	}

	if err := registerMetaEndpoints(); err != nil {
		return err
	}

	return registerDebugEndpoints()
}

func start() error {
	logFlagOverrides()
	go Serve()
	return nil
}

func stop() error {
	if server != nil {
		// Connections that do not finish within the grace period are cut off.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
	return nil
}
