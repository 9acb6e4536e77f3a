// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api assembles the REST surface of the capacity token service.
package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/gaslink/gaslink/api/admin"
	"github.com/gaslink/gaslink/api/bookings"
	"github.com/gaslink/gaslink/api/events"
	"github.com/gaslink/gaslink/api/staking"
	"github.com/gaslink/gaslink/api/token"
	"github.com/gaslink/gaslink/logdb"
	"github.com/gaslink/gaslink/runtime"
)

// Options configures the assembled handler.
type Options struct {
	AllowedOrigins  string
	LogsLimit       uint64
	PprofOn         bool
	EnableMetrics   bool
	EnableReqLogger bool
}

// New assembles the REST handler over the runtime and the event log.
func New(rt *runtime.Runtime, logDB *logdb.LogDB, opts Options) http.Handler {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	token.New(rt).
		Mount(router, "/token")
	staking.New(rt).
		Mount(router, "/staking")
	bookings.New(rt).
		Mount(router, "/bookings")
	admin.New(rt).
		Mount(router, "/admin")
	if logDB != nil {
		events.New(logDB, opts.LogsLimit).
			Mount(router, "/events")
	}

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsHandler)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = requestLoggerHandler(handler)
	}
	return handler
}
