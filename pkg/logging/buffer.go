package logging

import (
	"strings"
	"sync"
)

// DefaultCaptureLines is the number of lines GlobalLogCapture keeps.
const DefaultCaptureLines = 32

// LogCaptureWriter is a thread-safe writer that keeps the most recent lines.
type LogCaptureWriter struct {
	mu    sync.RWMutex
	lines []string
	next  int
	full  bool
}

// GlobalLogCapture collects warnings and errors for the end-of-run summary.
var GlobalLogCapture = NewLogCaptureWriter(DefaultCaptureLines)

// NewLogCaptureWriter returns a writer keeping up to n lines (at least one).
func NewLogCaptureWriter(n int) *LogCaptureWriter {
	if n < 1 {
		n = 1
	}
	return &LogCaptureWriter{lines: make([]string, n)}
}

// Write implements io.Writer. Each call is stored as one line.
func (w *LogCaptureWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines[w.next] = strings.TrimRight(string(p), "\n")
	w.next = (w.next + 1) % len(w.lines)
	if w.next == 0 {
		w.full = true
	}
	return len(p), nil
}

// GetLastLine returns the most recent line.
func (w *LogCaptureWriter) GetLastLine() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.full && w.next == 0 {
		return ""
	}
	return w.lines[(w.next-1+len(w.lines))%len(w.lines)]
}

// Lines returns the stored lines, oldest first.
func (w *LogCaptureWriter) Lines() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.full {
		return append([]string(nil), w.lines[:w.next]...)
	}
	out := make([]string, 0, len(w.lines))
	out = append(out, w.lines[w.next:]...)
	return append(out, w.lines[:w.next]...)
}

// Reset drops all stored lines.
func (w *LogCaptureWriter) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	clear(w.lines)
	w.next = 0
	w.full = false
}
