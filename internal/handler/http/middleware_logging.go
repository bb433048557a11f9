// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Arenvest Labs

package http

import (
	"net/http"
	"time"

	"github.com/arenvest/crm/internal/logger"
)

// withLogging writes one access-log line per request with the status and
// size captured by the wrapping responseWriter.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		log.Info().
			Str("uri", r.RequestURI).
			Str("method", r.Method).
			Int("status", lw.status).
			Dur("duration", time.Since(start)).
			Int("size", lw.size).
			Send()
	})
}
