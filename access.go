/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

func humanReadableSize(bytes int64) string {
	const unit int64 = 1000
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := unit, 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB",
		float64(bytes)/float64(div),
		"kMGTPE"[exp])
}

// countingWriter records the status and body size of a response.
type countingWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (c *countingWriter) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	n, err := c.ResponseWriter.Write(p)
	c.written += int64(n)
	return n, err
}

// withAccessLog logs each request to h when --verbose is set.
func withAccessLog(cfg *Config, what string, h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		if !cfg.verbose {
			h(w, r, p)
			return
		}

		startTime := time.Now()
		cw := &countingWriter{ResponseWriter: w}

		h(cw, r, p)

		logf(cfg, "SERVE: %s (%s, %d) to %s in %s",
			what,
			humanReadableSize(cw.written),
			cw.status,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}
