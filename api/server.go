package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/saradhi4688/qrngenv/log"
)

var (
	// mainMux is the main mux router.
	mainMux = mux.NewRouter()

	// server is the API http server.
	server = &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
	}

	// handlerLock guards the route and middleware registrations.
	handlerLock sync.RWMutex

	mainHandler = &mwHandler{
		final: http.HandlerFunc(handleRequest),
		handlers: []Middleware{
			ModuleWorker,
			LogTracer,
			RequestLogger,
			CrossOriginRequests,
		},
	}
)

// RegisterHandler registers a handler with the API endpoint.
func RegisterHandler(path string, handler http.Handler) *mux.Route {
	handlerLock.Lock()
	defer handlerLock.Unlock()
	return mainMux.Handle(path, handler)
}

// RegisterHandleFunc registers a handle function with the API endpoint.
func RegisterHandleFunc(path string, handleFunc func(http.ResponseWriter, *http.Request)) *mux.Route {
	handlerLock.Lock()
	defer handlerLock.Unlock()
	return mainMux.HandleFunc(path, handleFunc)
}

// Serve starts serving the API endpoint.
func Serve() {
	// configure server
	server.Addr = listenAddress()
	server.Handler = mainHandler
	if server.Addr == "" {
		log.Errorf("api: cannot serve: %s", errNoListenAddr)
		return
	}

	// start serving
	log.Infof("api: starting to listen on %s", server.Addr)
	backoffDuration := 10 * time.Second
	for {
		err := module.RunWorker("http endpoint", func(_ context.Context) error {
			// ListenAndServe always returns an error.
			return server.ListenAndServe()
		})
		// return on clean shutdown
		if errors.Is(err, http.ErrServerClosed) {
			return
		}

		log.Errorf("api: http endpoint failed: %s - restarting in %s", err, backoffDuration)
		select {
		case <-time.After(backoffDuration):
		case <-module.Stopping():
			return
		}
	}
}

func handleRequest(w http.ResponseWriter, r *http.Request) {
	// Add the api request context.
	apiRequest := &Request{
		URLVars: make(map[string]string),
	}
	r = r.WithContext(context.WithValue(r.Context(), requestContextKey, apiRequest))
	apiRequest.Request = r

	// Get handler for request.
	// Gorilla does not support handling this on our own very well.
	// See github.com/gorilla/mux.ServeHTTP for reference.
	var match mux.RouteMatch
	var handler http.Handler
	if mainMux.Match(r, &match) {
		handler = match.Handler
		apiRequest.Route = match.Route
		for k, v := range match.Vars {
			apiRequest.URLVars[k] = v
		}
	}

	switch {
	case handler != nil:
		handler.ServeHTTP(w, r)
	case errors.Is(match.MatchErr, mux.ErrMethodMismatch):
		http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
	default:
		http.Error(w, "Not found.", http.StatusNotFound)
	}
}
