package logx

import (
	"io"
	"sync"

	"envmon-go/x/conv"
	"envmon-go/x/strconvx"
)

// lineLogger writes "LEVEL msg k=v k=v\n" records without fmt or maps.
type lineLogger struct {
	mu   *sync.Mutex
	w    io.Writer
	min  Level
	with []any
	buf  *[]byte
}

// NewLine returns a Logger writing one line per record to w.
func NewLine(w io.Writer, min Level) Logger {
	b := make([]byte, 0, 128)
	return &lineLogger{mu: new(sync.Mutex), w: w, min: min, buf: &b}
}

func (l *lineLogger) Debug(msg string, kv ...any) { l.log(DebugLevel, msg, nil, kv) }
func (l *lineLogger) Info(msg string, kv ...any)  { l.log(InfoLevel, msg, nil, kv) }
func (l *lineLogger) Warn(msg string, kv ...any)  { l.log(WarnLevel, msg, nil, kv) }
func (l *lineLogger) Error(msg string, err error, kv ...any) {
	l.log(ErrorLevel, msg, err, kv)
}

func (l *lineLogger) With(kv ...any) Logger {
	c := *l
	c.with = append(append([]any(nil), l.with...), kv...)
	return &c
}

var levelTags = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l *lineLogger) log(lvl Level, msg string, err error, kv []any) {
	if lvl < l.min || lvl >= Disabled {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b := (*l.buf)[:0]
	b = append(b, levelTags[lvl]...)
	b = append(b, ' ')
	b = append(b, msg...)
	b = appendPairs(b, l.with)
	b = appendPairs(b, kv)
	if err != nil {
		b = append(b, " err="...)
		b = append(b, err.Error()...)
	}
	b = append(b, '\n')
	*l.buf = b
	_, _ = l.w.Write(b)
}

func appendPairs(b []byte, kv []any) []byte {
	for i := 0; i+1 < len(kv); i += 2 {
		b = append(b, ' ')
		if k, ok := kv[i].(string); ok {
			b = append(b, k...)
		} else {
			b = append(b, '?')
		}
		b = append(b, '=')
		b = appendValue(b, kv[i+1])
	}
	if len(kv)%2 == 1 {
		b = append(b, " !extra="...)
		b = appendValue(b, kv[len(kv)-1])
	}
	return b
}

func appendValue(b []byte, v any) []byte {
	switch x := v.(type) {
	case string:
		return append(b, x...)
	case bool:
		if x {
			return append(b, "true"...)
		}
		return append(b, "false"...)
	case int:
		return conv.AppendInt(b, int64(x))
	case int32:
		return conv.AppendInt(b, int64(x))
	case int64:
		return conv.AppendInt(b, x)
	case uint8:
		return conv.AppendHex8(b, x)
	case uint16:
		return conv.AppendUint(b, uint64(x))
	case uint32:
		return conv.AppendUint(b, uint64(x))
	case uint64:
		return conv.AppendUint(b, x)
	case float32:
		return strconvx.AppendFixed(b, float64(x), 2)
	case float64:
		return strconvx.AppendFixed(b, x, 2)
	case error:
		return append(b, x.Error()...)
	case nil:
		return append(b, "nil"...)
	}
	return append(b, '?')
}
