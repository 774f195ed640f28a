// Package audit is the structured log sink for check cycles: one JSON line
// per completed cycle, one stream per check. Rotation and gzip compression
// of full streams are delegated to lumberjack.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hamed0406/uptime/internal/domain"
)

// Record is one audited check cycle.
type Record struct {
	CheckID      string       `json:"checkId"`
	ResponseCode int          `json:"responseCode,omitempty"`
	Error        string       `json:"error,omitempty"`
	State        domain.State `json:"state"`
	Alerted      bool         `json:"alerted"`
	At           time.Time    `json:"at"`
}

// Sink is the append-only face the engine sees.
type Sink interface {
	Append(stream string, rec Record) error
}

// FileSink writes each stream through its own lumberjack logger.
type FileSink struct {
	dir string

	mu      sync.Mutex
	streams map[string]*lumberjack.Logger
}

func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("audit: mkdir %s: %w", dir, err)
	}
	return &FileSink{dir: dir, streams: make(map[string]*lumberjack.Logger)}, nil
}

func (s *FileSink) writer(stream string) *lumberjack.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.streams[stream]
	if w == nil {
		w = &lumberjack.Logger{
			Filename:   filepath.Join(s.dir, stream+".log"),
			MaxSize:    5, // MB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		s.streams[stream] = w
	}
	return w
}

// Append writes rec as one JSON line on the stream, creating it on first use.
func (s *FileSink) Append(stream string, rec Record) error {
	if stream == "" {
		return fmt.Errorf("audit: empty stream name")
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("audit: encode record for %s: %w", stream, err)
	}
	if _, err := s.writer(stream).Write(append(b, '\n')); err != nil {
		return fmt.Errorf("audit: append %s: %w", stream, err)
	}
	return nil
}

// List names the streams present on disk. With includeCompressed set the
// rotated .gz archives are included too.
func (s *FileSink) List(includeCompressed bool) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("audit: list %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".log"):
			names = append(names, strings.TrimSuffix(name, ".log"))
		case includeCompressed && strings.HasSuffix(name, ".gz"):
			names = append(names, strings.TrimSuffix(name, ".gz"))
		}
	}
	return names, nil
}

// Close flushes and closes every open stream.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs error
	for _, w := range s.streams {
		errs = multierr.Append(errs, w.Close())
	}
	s.streams = make(map[string]*lumberjack.Logger)
	return errs
}
