package events

import (
	"log"
	"os"
	"sync"
)

// LogSink writes event lines to the process log, the default public log of a
// development hub.
type LogSink struct{}

func (LogSink) Publish(line []byte) {
	log.Println(string(line))
}

// FileSink appends event lines to a file, one record per line. This is the
// durable event trail relayers can tail or re-read after a restart.
type FileSink struct {
	mu   sync.Mutex
	path string
}

// NewFileSink creates a sink appending to path. The file is opened per write
// so log rotation does not require a restart.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Publish(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("Warning: event log unavailable: %v", err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		log.Printf("Warning: failed to append event line: %v", err)
	}
}

// CaptureSink collects emitted lines in memory. Tests and the recent-events
// API use it to observe the event trail without touching disk.
type CaptureSink struct {
	mu      sync.RWMutex
	lines   [][]byte
	maxSize int
}

// NewCaptureSink creates a capture sink keeping at most maxSize lines.
func NewCaptureSink(maxSize int) *CaptureSink {
	return &CaptureSink{maxSize: maxSize}
}

func (s *CaptureSink) Publish(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = append(s.lines, line)
	if s.maxSize > 0 && len(s.lines) > s.maxSize {
		s.lines = s.lines[len(s.lines)-s.maxSize:]
	}
}

// Lines returns the captured lines, oldest first.
func (s *CaptureSink) Lines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.lines))
	for i, l := range s.lines {
		out[i] = string(l)
	}
	return out
}
