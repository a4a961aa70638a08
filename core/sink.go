package core

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Sink receives framework diagnostics. Implementations get one preformatted
// line per call and decide where it goes.
type Sink interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// WriterSink writes severity-prefixed lines to an io.Writer. The default
// process-wide sink is a WriterSink on stderr.
type WriterSink struct {
	w io.Writer
}

// NewWriterSink creates a sink writing severity-prefixed lines to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Info(msg string)  { fmt.Fprintf(s.w, "INFO: %s\n", msg) }
func (s *WriterSink) Warn(msg string)  { fmt.Fprintf(s.w, "WARN: %s\n", msg) }
func (s *WriterSink) Error(msg string) { fmt.Fprintf(s.w, "ERROR: %s\n", msg) }

// NopSink discards all diagnostics.
type NopSink struct{}

func (NopSink) Info(string)  {}
func (NopSink) Warn(string)  {}
func (NopSink) Error(string) {}

var (
	sinkMu      sync.RWMutex
	currentSink Sink = NewWriterSink(os.Stderr)
)

// CurrentSink returns the process-wide diagnostic sink.
func CurrentSink() Sink {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return currentSink
}

// SwapSink installs s as the process-wide sink and returns the prior one.
// A nil s installs NopSink.
func SwapSink(s Sink) Sink {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	prev := currentSink
	if s == nil {
		s = NopSink{}
	}
	currentSink = s
	return prev
}

// WithSink runs fn with s installed as the sink, restoring the prior sink on
// every exit path, including a panic out of fn.
func WithSink(s Sink, fn func()) {
	prev := SwapSink(s)
	defer SwapSink(prev)
	fn()
}

// Silenced runs fn with all diagnostics suppressed.
func Silenced(fn func()) {
	WithSink(NopSink{}, fn)
}

func logInfo(msg string) { CurrentSink().Info(msg) }
