package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/klyqa/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006/01/02 15:04:05"

// NewLogger builds the application logger. With a log file configured the
// output goes to a rotating file instead of stderr.
func NewLogger(cfg config.LogConfig) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		}
	}

	return log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      timeFormat,
		ReportCaller:    cfg.ReportCaller,
	}), nil
}
