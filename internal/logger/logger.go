package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const logExt = ".log"

// Setup routes the default slog logger to stdout and logPath. *.log files in
// the log directory older than maxAge days are removed first. The returned func
// restores the previous logger and closes the file.
func Setup(logPath string, maxAge int) (func(), error) {
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	if err := cleanup(dir, maxAge); err != nil {
		return nil, fmt.Errorf("failed to cleanup old logs: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open/create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(multiWriter, nil)))

	return func() {
		slog.SetDefault(old)
		if err := file.Close(); err != nil {
			slog.Error("failed to close log file", "err", err)
		}
	}, nil
}

// cleanup only touches *.log files; the log directory may be shared with
// the group database.
func cleanup(dir string, maxAge int) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read log directory: %w", err)
	}
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != logExt {
			continue
		}
		info, err := file.Info()
		if err != nil {
			return fmt.Errorf("failed to get log file info: %w", err)
		}

		if time.Since(info.ModTime()) > time.Duration(maxAge)*24*time.Hour {
			if err = os.Remove(filepath.Join(dir, file.Name())); err != nil {
				return fmt.Errorf("failed to remove old log file: %w", err)
			}
		}
	}
	return nil
}
