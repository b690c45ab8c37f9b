// Package audit appends one JSON line per update-cycle event to a log file.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Logger struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

type Event struct {
	Timestamp string `json:"timestamp"`
	Operation string `json:"operation"`
	Phase     string `json:"phase"`
	Status    string `json:"status"`
	Packages  int    `json:"packages,omitempty"`
	Message   string `json:"message,omitempty"`
}

func New(path string) *Logger {
	return &Logger{path: path, now: time.Now}
}

func (l *Logger) Log(ev Event) error {
	if l == nil || l.path == "" {
		return nil
	}
	ev.Timestamp = l.now().UTC().Format(time.RFC3339Nano)
	blob, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(blob, '\n')); err != nil {
		return err
	}
	return nil
}
