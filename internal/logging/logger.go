package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"seasonwatch/internal/config"
)

const (
	formatConsole = "console"
	formatJSON    = "json"

	// Terminal lines carry only the clock; the log file keeps the date so
	// separate runs can be told apart.
	terminalTimeLayout = "15:04:05"
	fileTimeLayout     = "2006-01-02 15:04:05"
)

// Options configures New. Console and File are independent sinks and a
// logger with neither discards everything.
type Options struct {
	Level string
	// Format selects the log file encoding: "console" lines or "json".
	Format string
	// Console receives human-readable lines, typically stderr.
	Console io.Writer
	// Color paints level labels on Console with ANSI escapes.
	Color bool
	// File is appended to; its directory is created when missing.
	File        string
	Development bool
}

// New builds a logger writing to every sink named in opts.
func New(opts Options) (*slog.Logger, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	switch format {
	case "":
		format = formatConsole
	case formatConsole, formatJSON:
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	level := new(slog.LevelVar)
	level.Set(parseLevel(opts.Level))
	withSource := opts.Development || level.Level() <= slog.LevelDebug

	var sinks fanout
	if opts.Console != nil {
		sinks = append(sinks, newLineHandler(&lineSink{
			out:    opts.Console,
			level:  level,
			layout: terminalTimeLayout,
			source: withSource,
			color:  opts.Color,
			hidden: map[string]bool{FieldRunID: true},
		}))
	}
	if path := strings.TrimSpace(opts.File); path != "" {
		file, err := openLogFile(path)
		if err != nil {
			return nil, err
		}
		if format == formatJSON {
			sinks = append(sinks, newJSONHandler(file, level, withSource))
		} else {
			sinks = append(sinks, newLineHandler(&lineSink{
				out:    file,
				level:  level,
				layout: fileTimeLayout,
				source: withSource,
			}))
		}
	}

	switch len(sinks) {
	case 0:
		return NewNop(), nil
	case 1:
		return slog.New(sinks[0]), nil
	default:
		return slog.New(sinks), nil
	}
}

// NewFromConfig logs to console and to the log file inside the data
// directory. Pass a nil console to write the file only.
func NewFromConfig(cfg *config.Config, console io.Writer, color bool) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Console: console, Color: color})
	}
	opts := Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Console: console,
		Color:   color,
	}
	if cfg.Paths.DataDir != "" {
		opts.File = cfg.LogPath()
	}
	return New(opts)
}

// NewNop returns a logger that drops every record.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func newJSONHandler(w io.Writer, level slog.Leveler, withSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: withSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339))
			case slog.LevelKey:
				return slog.String("level", strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					return slog.String("caller", filepath.Base(src.File)+":"+strconv.Itoa(src.Line))
				}
			}
			return attr
		},
	})
}

// fanout hands each record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, h := range f {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

func (f fanout) WithGroup(name string) slog.Handler {
	next := make(fanout, len(f))
	for i, h := range f {
		next[i] = h.WithGroup(name)
	}
	return next
}
