package console

import (
	"bytes"
	"io"
	"sync"
)

// HeldLog buffers diagnostics written while the terminal is raw and hands
// them to dst on Flush.
type HeldLog struct {
	mu  sync.Mutex
	buf bytes.Buffer
	dst io.Writer
}

// NewHeldLog returns a log that releases to dst.
func NewHeldLog(dst io.Writer) *HeldLog {
	return &HeldLog{dst: dst}
}

// Write implements io.Writer.
func (l *HeldLog) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf.Write(p)
}

// Flush writes everything held so far to the destination.
func (l *HeldLog) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.buf.Len() == 0 {
		return nil
	}
	_, err := l.buf.WriteTo(l.dst)
	return err
}
