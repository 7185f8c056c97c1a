package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime/pprof"

	"github.com/saradhi4688/qrngenv/config"
)

// The debug endpoints are only served in development mode, as goroutine
// stacks may leak internals that have no place on an open API.
var devMode config.BoolOption

func registerDebugEndpoints() error {
	devMode = config.GetAsBool(config.CfgDevModeKey, false)

	if err := RegisterEndpoint(Endpoint{
		Path:        "debug/stack",
		DataFunc:    getStack,
		Name:        "Get Goroutine Stack",
		Description: "Returns the current goroutine stack.",
	}); err != nil {
		return err
	}

	if err := RegisterEndpoint(Endpoint{
		Path:        "debug/stack/print",
		ActionFunc:  printStack,
		Name:        "Print Goroutine Stack",
		Description: "Prints the current goroutine stack to stderr.",
	}); err != nil {
		return err
	}

	return nil
}

// checkDevMode returns an error if development mode is not enabled.
func checkDevMode() error {
	if !devMode() {
		return ErrorWithStatus(
			errors.New("debug endpoints are only available in development mode"),
			http.StatusForbidden,
		)
	}
	return nil
}

// getStack returns the current goroutine stack.
func getStack(_ *Request) (data []byte, err error) {
	if err := checkDevMode(); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	err = pprof.Lookup("goroutine").WriteTo(buf, 1)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// printStack prints the current goroutine stack to stderr.
func printStack(_ *Request) (msg string, err error) {
	if err := checkDevMode(); err != nil {
		return "", err
	}

	_, err = fmt.Fprint(os.Stderr, "===== PRINTING STACK =====\n")
	if err == nil {
		err = pprof.Lookup("goroutine").WriteTo(os.Stderr, 1)
	}
	if err == nil {
		_, err = fmt.Fprint(os.Stderr, "===== END OF STACK =====\n")
	}
	if err != nil {
		return "", err
	}
	return "stack printed to stderr", nil
}
