package log

import (
	"fmt"
	"io"
	"sync"
)

type Logger interface {
	Log(format string, a ...interface{})
}

var (
	_ Logger = &logger{}
	_ Logger = &nopLogger{}
)

// logger writes one line per call. A single logger may be shared by concurrent
// requests, so writes to the underlying writer are serialized.
type logger struct {
	mu     *sync.Mutex
	w      io.Writer
	prefix string
}

func NewLogger(w io.Writer) (*logger, error) {
	if w == nil {
		return nil, fmt.Errorf("w is nil; NewLogger() needs a writer")
	}
	return &logger{
		mu: &sync.Mutex{},
		w:  w,
	}, nil
}

// WithPrefix returns a logger sharing l's writer whose lines start with prefix.
func WithPrefix(l Logger, prefix string) Logger {
	switch l := l.(type) {
	case *logger:
		return &logger{
			mu:     l.mu,
			w:      l.w,
			prefix: l.prefix + prefix,
		}
	default:
		return l
	}
}

func (l *logger) Log(format string, a ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s"+format+"\n", append([]interface{}{l.prefix}, a...)...)
}

type nopLogger struct {
}

func NewNopLogger() *nopLogger {
	return &nopLogger{}
}

func (l *nopLogger) Log(format string, a ...interface{}) {
}
