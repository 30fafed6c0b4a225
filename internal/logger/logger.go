// Package logger provides the run-scoped logging for the updater: leveled
// text or JSON output, secret masking, and verbose-mode helpers for the
// HTTP traffic and the record change.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ANSI escape sequences for text output.
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
	ansiBold   = "\033[1m"
)

// LogEntry is the shape of one JSON log line.
type LogEntry struct {
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp string                 `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	RunID     string                 `json:"runId"`
}

// Options configures the logger.
type Options struct {
	Verbose bool
	JSON    bool
	NoColor bool
}

// Logger writes the run's output. Every JSON entry carries a unique run ID
// so lines from cron-driven invocations can be correlated.
type Logger struct {
	out     io.Writer
	runID   string
	verbose bool
	json    bool
	dryRun  bool
	noColor bool
}

// New creates a logger writing to stdout.
func New(opts Options) *Logger {
	return &Logger{
		out:     os.Stdout,
		runID:   uuid.NewString(),
		verbose: opts.Verbose,
		json:    opts.JSON,
		noColor: opts.NoColor || opts.JSON, // no color in JSON mode
	}
}

// RunID returns the unique identifier for this invocation.
func (l *Logger) RunID() string {
	return l.runID
}

// SetDryRun marks all subsequent output as rehearsal only.
func (l *Logger) SetDryRun(dryRun bool) {
	l.dryRun = dryRun
}

// Info logs a message regardless of verbosity.
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit("info", fmt.Sprintf(format, args...), nil)
}

// InfoWithData logs a message carrying structured fields on the JSON entry.
// Text mode prints the message alone.
func (l *Logger) InfoWithData(message string, data map[string]interface{}) {
	l.emit("info", message, data)
}

// Debug logs a message in verbose mode only.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	l.emit("debug", fmt.Sprintf(format, args...), nil)
}

// Warn logs an advisory that does not stop the run.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit("warn", fmt.Sprintf(format, args...), nil)
}

// HTTPRequest logs an outgoing request in verbose mode.
func (l *Logger) HTTPRequest(method, url string) {
	if !l.verbose {
		return
	}
	if l.json {
		l.writeEntry("debug", "HTTP request", map[string]interface{}{
			"type":   "request",
			"method": method,
			"url":    url,
		})
		return
	}
	fmt.Fprintf(l.out, "%s%s %s %s\n",
		l.prefix(), l.paint(ansiCyan, "REQUEST"), l.paint(ansiBold, method), url)
}

// HTTPResponse logs the status of a completed request in verbose mode.
func (l *Logger) HTTPResponse(method, url string, statusCode int) {
	if !l.verbose {
		return
	}
	if l.json {
		l.writeEntry("debug", "HTTP response", map[string]interface{}{
			"type":       "response",
			"method":     method,
			"url":        url,
			"statusCode": statusCode,
		})
		return
	}
	fmt.Fprintf(l.out, "%s%s %s %s -> %s\n",
		l.prefix(), l.paint(ansiCyan, "RESPONSE"), l.paint(ansiBold, method), url, l.status(statusCode))
}

// Change logs the record change as a removed/added pair in verbose mode.
func (l *Logger) Change(oldIP, newIP string) {
	if !l.verbose {
		return
	}
	if l.json {
		l.writeEntry("debug", "record change", map[string]interface{}{
			"old": oldIP,
			"new": newIP,
		})
		return
	}
	fmt.Fprintf(l.out, "%s  %s\n", l.prefix(), l.paint(ansiRed, "- "+oldIP))
	fmt.Fprintf(l.out, "%s  %s\n", l.prefix(), l.paint(ansiGreen, "+ "+newIP))
}

// emit is the single writer behind the plain logging methods. The text form
// decorates by level; the JSON form is a LogEntry per line.
func (l *Logger) emit(level, message string, data map[string]interface{}) {
	if l.json {
		l.writeEntry(level, message, data)
		return
	}

	line := message
	switch level {
	case "debug":
		line = l.paint(ansiGray, line)
	case "warn":
		line = l.paint(ansiYellow, "! "+line)
	}
	fmt.Fprintf(l.out, "%s%s\n", l.prefix(), line)
}

func (l *Logger) writeEntry(level, message string, data map[string]interface{}) {
	entry := LogEntry{
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Message:   message,
		RunID:     l.runID,
	}
	if l.dryRun {
		if entry.Data == nil {
			entry.Data = make(map[string]interface{})
		}
		entry.Data["dryRun"] = true
	}

	line, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.out, "{\"level\":%q,\"message\":%q}\n", level, message)
		return
	}
	fmt.Fprintln(l.out, string(line))
}

func (l *Logger) prefix() string {
	if l.dryRun {
		return l.paint(ansiYellow, "[DRY RUN] ")
	}
	return ""
}

func (l *Logger) paint(color, text string) string {
	if l.noColor {
		return text
	}
	return color + text + ansiReset
}

func (l *Logger) status(code int) string {
	s := strconv.Itoa(code)
	switch {
	case code < 300:
		return l.paint(ansiGreen, s)
	case code < 400:
		return l.paint(ansiYellow, s)
	default:
		return l.paint(ansiRed, s)
	}
}

// MaskSecret hides all but the first and last two characters of secret.
func MaskSecret(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}
