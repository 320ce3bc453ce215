// Package logging builds the process logger and the gin request logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// New creates a [log.Logger] writing to w (stderr when nil) with timestamps enabled.
// level is one of debug|info|warn|error; format "json" switches to the JSON formatter.
func New(w io.Writer, level, format string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, TimeFormat: time.RFC3339}
	if strings.EqualFold(format, "json") {
		opts.Formatter = log.JSONFormatter
	}
	l := log.NewWithOptions(w, opts)

	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Setup creates the logger and installs it as the package default so plain
// log.Info/log.Error calls across the codebase go through it.
func Setup(level, format string) *log.Logger {
	l := New(nil, level, format)
	log.SetDefault(l)
	return l
}

// RequestLogger logs one line per request once the handler chain has run.
func RequestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start).Round(time.Microsecond),
		}
		if uid := c.GetUint("user_id"); uid != 0 {
			kv = append(kv, "user_id", uid)
		}
		if team, ok := c.Get("team_id"); ok {
			kv = append(kv, "team_id", team)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			l.Error("request", kv...)
		case status >= 400:
			l.Warn("request", kv...)
		default:
			l.Info("request", kv...)
		}
	}
}
