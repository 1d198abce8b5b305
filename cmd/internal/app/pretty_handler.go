package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

const (
	ansiReset   = "\x1b[0m"
	ansiBright  = "\x1b[1m"
	ansiDim     = "\x1b[2m"
	ansiRed     = "\x1b[31m"
	ansiGreen   = "\x1b[32m"
	ansiYellow  = "\x1b[33m"
	ansiBlue    = "\x1b[34m"
	ansiMagenta = "\x1b[35m"
	ansiCyan    = "\x1b[36m"
)

// prettyMsgWidth aligns attributes after short event names.
const prettyMsgWidth = 24

var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var (
	methodColors = map[string]string{
		"GET": ansiGreen, "HEAD": ansiGreen,
		"POST":   ansiBlue,
		"PUT":    ansiYellow,
		"PATCH":  ansiYellow,
		"DELETE": ansiRed,
	}
	classColors = map[string]string{
		"2xx": ansiGreen, "3xx": ansiCyan, "4xx": ansiYellow, "5xx": ansiRed,
	}
	resultColors = map[string]string{
		"success": ansiGreen, "redirect": ansiCyan, "client_error": ansiYellow, "server_error": ansiRed,
	}
	// Short names for the noisiest request-log keys.
	prettyKeyAlias = map[string]string{
		"status_class": "class",
		"duration_ms":  "duration",
	}
)

// prettyHandler renders one key=value line per record for local development.
// Attributes bound through WithAttrs are rendered once, up front, with the
// group prefix that was active at bind time.
type prettyHandler struct {
	out    io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	source bool
	color  bool

	prefix string // active group path, "a.b." form
	bound  string // pre-rendered " k=v" pairs
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, color bool) slog.Handler {
	h := &prettyHandler{out: w, mu: &sync.Mutex{}, level: slog.LevelInfo, color: color}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.source = opts.AddSource
	}
	return h
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ts=%s lvl=%s msg=%s",
		h.wrap(ts.Format("15:04:05.000"), ansiDim),
		h.wrap(levelTag(r.Level), levelColor(r.Level)),
		padVisual(h.wrap(r.Message, ansiBright), prettyMsgWidth),
	)

	if h.source && r.PC != 0 {
		if f, _ := runtime.CallersFrames([]uintptr{r.PC}).Next(); f.File != "" {
			b.WriteString(" src=")
			b.WriteString(h.wrap(filepath.Base(f.File)+":"+strconv.Itoa(f.Line), ansiDim))
		}
	}

	b.WriteString(h.bound)
	r.Attrs(func(a slog.Attr) bool {
		h.render(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	for _, a := range attrs {
		h.render(&b, h.prefix, a)
	}
	cp := *h
	cp.bound = h.bound + b.String()
	return &cp
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	name = strings.TrimSpace(name)
	if name == "" {
		return h
	}
	cp := *h
	cp.prefix = h.prefix + name + "."
	return &cp
}

func (h *prettyHandler) render(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	key := strings.TrimSpace(a.Key)
	if key == "" {
		return
	}
	key = prefix + key

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			h.render(b, key+".", ga)
		}
		return
	}

	name := key
	if alias, ok := prettyKeyAlias[key]; ok {
		name = alias
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(h.formatValue(key, a.Value))
}

// formatValue highlights well-known request-log fields and quotes the rest
// when they would break key=value parsing.
func (h *prettyHandler) formatValue(key string, v slog.Value) string {
	switch key {
	case "method":
		m := strings.ToUpper(strings.TrimSpace(v.String()))
		return h.wrap(m, colorOr(methodColors, m, ansiMagenta))
	case "path":
		return h.wrap(strings.TrimSpace(v.String()), ansiCyan)
	case "status":
		if n, ok := valueToInt64(v); ok {
			return h.wrap(strconv.FormatInt(n, 10), colorOr(classColors, statusClass(int(n)), ansiDim))
		}
	case "status_class", "class":
		c := strings.TrimSpace(v.String())
		return h.wrap(c, colorOr(classColors, c, ansiDim))
	case "duration_ms":
		if n, ok := valueToInt64(v); ok {
			return h.wrap(strconv.FormatInt(n, 10)+"ms", durationColor(n))
		}
	case "result":
		r := strings.ToLower(strings.TrimSpace(v.String()))
		return h.wrap(r, resultColors[r])
	}
	return quoteIfNeeded(valueToString(v))
}

// wrap paints s with code when colour output is on.
func (h *prettyHandler) wrap(s, code string) string {
	if !h.color || s == "" || code == "" {
		return s
	}
	return code + s + ansiReset
}

func colorOr(palette map[string]string, key, fallback string) string {
	if c, ok := palette[key]; ok {
		return c
	}
	return fallback
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "[ERROR]"
	case level >= slog.LevelWarn:
		return "[WARN]"
	case level < slog.LevelInfo:
		return "[DEBUG]"
	default:
		return "[INFO]"
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level < slog.LevelInfo:
		return ansiMagenta
	default:
		return ansiBlue
	}
}

func durationColor(ms int64) string {
	switch {
	case ms >= 1000:
		return ansiRed
	case ms >= 250:
		return ansiYellow
	default:
		return ansiDim
	}
}

func valueToString(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	default:
		// String() covers string, ints, bools, durations and Any.
		return v.String()
	}
}

func valueToInt64(v slog.Value) (int64, bool) {
	switch v.Kind() {
	case slog.KindInt64:
		return v.Int64(), true
	case slog.KindUint64:
		return int64(v.Uint64()), true // #nosec G115 -- log values only; overflow is cosmetic.
	case slog.KindFloat64:
		return int64(v.Float64()), true
	case slog.KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(v.String()), 10, 64)
		return n, err == nil
	}
	return 0, false
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.Quote(s)
	}
	return s
}

func stripANSI(s string) string {
	return ansiRe.ReplaceAllString(s, "")
}

// padVisual right-pads s with spaces to width printed columns.
func padVisual(s string, width int) string {
	if n := visualLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// visualLen is the printed width of s, ignoring colour escapes.
func visualLen(s string) int {
	return utf8.RuneCountInString(stripANSI(s))
}
