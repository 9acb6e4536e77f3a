// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"time"

	"github.com/gaslink/gaslink/log"
)

var logger = log.WithContext("pkg", "api")

// requestLoggerHandler logs every request with its status and duration.
func requestLoggerHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		mrw := newMetricsResponseWriter(w)
		h.ServeHTTP(mrw, r)

		logger.Info("http request",
			"method", r.Method,
			"uri", r.URL.String(),
			"code", mrw.statusCode,
			"duration", time.Since(started),
		)
	})
}
