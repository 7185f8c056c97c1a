package api

import (
	"context"
	"net/http"

	"github.com/saradhi4688/qrngenv/log"
)

// Middleware is a function that can be added as a middleware to the API endpoint.
type Middleware func(next http.Handler) http.Handler

type mwHandler struct {
	handlers []Middleware
	final    http.Handler
}

func (mwh *mwHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handlerLock.RLock()
	defer handlerLock.RUnlock()

	// final handler
	handler := mwh.final

	// build middleware chain
	// loop in reverse to build the handler chain in the correct order
	for i := len(mwh.handlers) - 1; i >= 0; i-- {
		handler = mwh.handlers[i](handler)
	}

	// start
	handler.ServeHTTP(w, r)
}

// RegisterMiddleware registers an additional middleware. It is applied after
// the built in ones, before the request is routed.
func RegisterMiddleware(middleware Middleware) {
	handlerLock.Lock()
	defer handlerLock.Unlock()

	mainHandler.handlers = append(mainHandler.handlers, middleware)
}

// ModuleWorker is an http middleware that wraps the request in a module worker.
func ModuleWorker(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = module.RunWorker("http request", func(_ context.Context) error {
			next.ServeHTTP(w, r)
			return nil
		})
	})
}

// LogTracer is an http middleware that attaches a log tracer to the request context.
func LogTracer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, tracer := log.AddTracer(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
		tracer.Submit()
	})
}

// RequestLogger is an http middleware that logs finished requests.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ew := NewEnrichedResponseWriter(w)
		next.ServeHTTP(ew, r)
		// A zero status means the connection was hijacked.
		if ew.Status != 0 {
			log.Tracer(r.Context()).Infof("api request: %s %d %s", r.RemoteAddr, ew.Status, r.RequestURI)
		}
	})
}

// CrossOriginRequests is an http middleware that allows cross origin
// requests, as access control is delegated to the deployment.
func CrossOriginRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "600")
			w.Header().Add("Vary", "Origin")
		}
		next.ServeHTTP(w, r)
	})
}
