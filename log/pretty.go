package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler holds the state shared by the pretty text and JSON handlers.
type prettyHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	group      string
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

// clone returns a copy of h with attrs appended, qualified by the current
// group name.
func (h *prettyHandler) clone(attrs []slog.Attr, group string) *prettyHandler {
	c := *h

	c.attrs = make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(c.attrs, h.attrs)

	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		c.attrs = append(c.attrs, a)
	}

	if group != "" {
		if c.group != "" {
			group = c.group + "." + group
		}

		c.group = group
	}

	return &c
}

// fields returns the standard fields of r followed by all attributes.
func (h *prettyHandler) fields(r slog.Record) []slog.Attr {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}

		fields = append(fields, a)

		return true
	})

	return fields
}

func (h *prettyHandler) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler implements a colorized key=value handler.
type prettyTextHandler struct{ *prettyHandler }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyTextHandler {
	return prettyTextHandler{&prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.fields(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(colorGray)
		buf.WriteString(a.Key)
		buf.WriteString(colorReset)
		buf.WriteByte('=')
		writeValue(buf, a.Value.Resolve())
	}

	return h.write(buf)
}

func (h prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return prettyTextHandler{h.clone(attrs, "")}
}

func (h prettyTextHandler) WithGroup(name string) slog.Handler {
	return prettyTextHandler{h.clone(nil, name)}
}

// prettyJSONHandler implements a multiline, colorized JSON-like handler.
type prettyJSONHandler struct{ *prettyHandler }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyJSONHandler {
	return prettyJSONHandler{&prettyHandler{
		opts:       *opts,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}}
}

func (h prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(colorGray)
		buf.WriteString(strconv.Quote(a.Key))
		buf.WriteString(colorReset)
		buf.WriteString(": ")
		writeValue(buf, a.Value.Resolve())
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return prettyJSONHandler{h.clone(attrs, "")}
}

func (h prettyJSONHandler) WithGroup(name string) slog.Handler {
	return prettyJSONHandler{h.clone(nil, name)}
}

// writeValue writes v colored by kind.
func writeValue(buf *bytes.Buffer, v slog.Value) {
	color, text := colorCyan, ""

	switch v.Kind() {
	case slog.KindString:
		text = v.String()

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		color, text = colorYellow, v.String()

	case slog.KindBool:
		color, text = colorRed, "false"
		if v.Bool() {
			color, text = colorGreen, "true"
		}

	case slog.KindDuration:
		color, text = colorMagenta, v.Duration().String()

	case slog.KindTime:
		color, text = colorBlue, v.Time().Format(time.RFC3339)

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, a.Key+"="+a.Value.Resolve().String())
		}

		text = "{" + strings.Join(parts, " ") + "}"

	default:
		if level, ok := v.Any().(slog.Level); ok {
			color, text = levelColor(level), strings.ToUpper(Level(level).String())
		} else {
			text = v.String()
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}
