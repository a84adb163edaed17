// Package progress holds the run's progress log: the human-readable trace of
// what was scanned, skipped and counted. Lines may come from many goroutines;
// a single writer goroutine owns the buffer.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Log is a single-writer text sink. The zero value is not usable; call New.
type Log struct {
	lines chan string
	done  chan struct{}
	echo  io.Writer

	closeOnce sync.Once
	buf       strings.Builder
}

// New starts the writer goroutine. When echo is non-nil every line is also
// written to it as it arrives.
func New(echo io.Writer) *Log {
	l := &Log{
		lines: make(chan string, 256),
		done:  make(chan struct{}),
		echo:  echo,
	}
	go l.run()
	return l
}

func (l *Log) run() {
	defer close(l.done)
	for line := range l.lines {
		l.buf.WriteString(line)
		l.buf.WriteByte('\n')
		if l.echo != nil {
			fmt.Fprintln(l.echo, line)
		}
	}
}

// Println queues one line. It is safe to call from any goroutine and is a
// no-op on a nil Log.
func (l *Log) Println(line string) {
	if l == nil {
		return
	}
	l.lines <- line
}

// Printf formats and queues one line.
func (l *Log) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.lines <- fmt.Sprintf(format, args...)
}

// Close flushes pending lines and stops the writer. Println must not be
// called after Close.
func (l *Log) Close() {
	if l == nil {
		return
	}
	l.closeOnce.Do(func() {
		close(l.lines)
	})
	<-l.done
}

// String closes the log and returns everything written to it.
func (l *Log) String() string {
	if l == nil {
		return ""
	}
	l.Close()
	return l.buf.String()
}
