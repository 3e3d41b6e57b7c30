package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/trakaido/trakaido/internal/config"
)

// New builds a configured logrus logger writing to the log file. The
// TUI owns the terminal, so a logger that cannot open its file goes
// quiet instead of corrupting the screen.
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	path := cfg.File
	if path == "" {
		path, err = DefaultLogPath()
		if err != nil {
			logger.SetOutput(io.Discard)
			return logger, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.SetOutput(io.Discard)
		return logger, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return logger, nil
	}
	logger.SetOutput(f)
	return logger, nil
}

// DefaultLogPath resolves the log file location:
// $XDG_STATE_HOME/trakaido/trakaido.log or ~/.local/state/trakaido/trakaido.log.
func DefaultLogPath() (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "trakaido", "trakaido.log"), nil
}
