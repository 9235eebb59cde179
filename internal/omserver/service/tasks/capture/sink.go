// Package capture records everything a task run prints.
package capture

import (
	"strings"
	"sync"
)

// Sink is an in-memory writer that keeps the cumulative text and every
// write as a separate fragment. The buffer is always the concatenation of
// the fragments. Writes never fail and are not bounded.
type Sink struct {
	mu   sync.Mutex
	buf  strings.Builder
	logs []string
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Write records p as one fragment.
func (s *Sink) Write(p []byte) (int, error) {
	s.append(string(p))
	return len(p), nil
}

// WriteString records str as one fragment.
func (s *Sink) WriteString(str string) (int, error) {
	s.append(str)
	return len(str), nil
}

func (s *Sink) append(str string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.WriteString(str)
	s.logs = append(s.logs, str)
}

// Flush is a no-op, writes are already in memory.
func (s *Sink) Flush() error {
	return nil
}

// Snapshot returns the cumulative text and a copy of the fragments. It is
// safe to call while writes are in progress.
func (s *Sink) Snapshot() (string, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logs := make([]string, len(s.logs))
	copy(logs, s.logs)
	return s.buf.String(), logs
}

// Logs returns a copy of the fragments.
func (s *Sink) Logs() []string {
	_, logs := s.Snapshot()
	return logs
}
