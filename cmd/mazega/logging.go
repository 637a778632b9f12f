package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/mazega/parameter"
)

// maxLogSize triggers rotation of an existing log file on startup
const maxLogSize = 10 * 1024 * 1024

// setupLogging builds the process logger. With toFile the log goes to dir/LogFile,
// rotated when oversized, so a full-screen view keeps the terminal; otherwise to fallback.
// The returned closer is nil when nothing was opened.
func setupLogging(level slog.Level, toFile bool, dir string, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: level}
	if !toFile {
		return slog.New(slog.NewTextHandler(fallback, opts)), nil, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, parameter.LogFile)
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		ext := filepath.Ext(parameter.LogFile)
		rotated := filepath.Join(dir, fmt.Sprintf("%s-%s%s",
			strings.TrimSuffix(parameter.LogFile, ext), time.Now().Format("20060102-150405"), ext))
		if err := os.Rename(path, rotated); err != nil {
			return nil, nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

// parseLevel accepts debug, info, warn or error
func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return l, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
