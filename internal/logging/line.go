package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// lineSink is the destination shared by a line handler and all of its
// derived handlers, so writes from any of them never interleave.
type lineSink struct {
	mu     sync.Mutex
	out    io.Writer
	level  slog.Leveler
	layout string
	source bool
	color  bool
	// hidden keys are dropped from the line entirely.
	hidden map[string]bool
}

// lineHandler renders records as
//
//	15:04:05 WARN seasons: provider lookup failed series_id=1399 error="..."
//
// The component attribute becomes the message prefix instead of a pair.
type lineHandler struct {
	sink      *lineSink
	component string
	pairs     []byte
	prefix    string
}

func newLineHandler(sink *lineSink) *lineHandler {
	return &lineHandler{sink: sink}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.sink.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, record slog.Record) error {
	component := h.component
	pairs := slices.Clone(h.pairs)
	record.Attrs(func(attr slog.Attr) bool {
		if h.prefix == "" && attr.Key == FieldComponent {
			component = attr.Value.Resolve().String()
			return true
		}
		pairs = h.sink.appendAttr(pairs, h.prefix, attr)
		return true
	})

	stamp := record.Time
	if stamp.IsZero() {
		stamp = time.Now()
	}

	line := make([]byte, 0, 96+len(pairs))
	line = stamp.AppendFormat(line, h.sink.layout)
	line = append(line, ' ')
	line = append(line, h.sink.label(record.Level)...)
	line = append(line, ' ')
	if component != "" {
		line = append(line, component...)
		line = append(line, ": "...)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	line = append(line, msg...)
	if h.sink.source {
		if src := record.Source(); src != nil && src.File != "" {
			line = fmt.Appendf(line, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	line = append(line, pairs...)
	line = append(line, '\n')

	h.sink.mu.Lock()
	defer h.sink.mu.Unlock()
	_, err := h.sink.out.Write(line)
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	next.pairs = slices.Clone(h.pairs)
	for _, attr := range attrs {
		if h.prefix == "" && attr.Key == FieldComponent {
			next.component = attr.Value.Resolve().String()
			continue
		}
		next.pairs = h.sink.appendAttr(next.pairs, h.prefix, attr)
	}
	return &next
}

func (h *lineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (s *lineSink) appendAttr(dst []byte, prefix string, attr slog.Attr) []byte {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = prefix + attr.Key + "."
		}
		for _, member := range value.Group() {
			dst = s.appendAttr(dst, inner, member)
		}
		return dst
	}
	key := prefix + attr.Key
	if s.hidden[key] {
		return dst
	}
	dst = append(dst, ' ')
	dst = append(dst, key...)
	dst = append(dst, '=')
	return appendValue(dst, value)
}

func appendValue(dst []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		return appendText(dst, v.String())
	case slog.KindInt64:
		return strconv.AppendInt(dst, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(dst, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(dst, v.Float64(), 'f', -1, 64)
	case slog.KindBool:
		return strconv.AppendBool(dst, v.Bool())
	case slog.KindDuration:
		return append(dst, v.Duration().String()...)
	case slog.KindTime:
		return v.Time().UTC().AppendFormat(dst, time.RFC3339)
	}
	if err, ok := v.Any().(error); ok {
		return appendText(dst, err.Error())
	}
	return appendText(dst, fmt.Sprint(v.Any()))
}

// appendText quotes s when it would otherwise split the key=value pair.
func appendText(dst []byte, s string) []byte {
	if s == "" || strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' }) {
		return strconv.AppendQuote(dst, s)
	}
	return append(dst, s...)
}

var levelPaint = map[string]*color.Color{
	"DEBUG": paint(color.FgHiBlack),
	"INFO":  paint(color.FgCyan),
	"WARN":  paint(color.FgYellow),
	"ERROR": paint(color.FgRed, color.Bold),
}

// paint ignores color.NoColor; the sink decides whether to colour at all.
func paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func (s *lineSink) label(level slog.Level) string {
	var name string
	switch {
	case level >= slog.LevelError:
		name = "ERROR"
	case level >= slog.LevelWarn:
		name = "WARN"
	case level >= slog.LevelInfo:
		name = "INFO"
	default:
		name = "DEBUG"
	}
	if !s.color {
		return name
	}
	return levelPaint[name].Sprint(name)
}
