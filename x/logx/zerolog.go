//go:build !tinygo

package logx

import (
	"io"

	"github.com/rs/zerolog"
)

type zlog struct{ z zerolog.Logger }

// New returns a timestamped JSON logger on w.
func New(w io.Writer, min Level) Logger {
	return FromZerolog(zerolog.New(w).Level(ZerologLevel(min)).With().Timestamp().Logger())
}

// FromZerolog wraps an existing zerolog logger.
func FromZerolog(z zerolog.Logger) Logger { return zlog{z: z} }

func (l zlog) Debug(msg string, kv ...any) { l.z.Debug().Fields(kv).Msg(msg) }
func (l zlog) Info(msg string, kv ...any)  { l.z.Info().Fields(kv).Msg(msg) }
func (l zlog) Warn(msg string, kv ...any)  { l.z.Warn().Fields(kv).Msg(msg) }
func (l zlog) Error(msg string, err error, kv ...any) {
	l.z.Error().Err(err).Fields(kv).Msg(msg)
}

func (l zlog) With(kv ...any) Logger {
	return zlog{z: l.z.With().Fields(kv).Logger()}
}

// ZerologLevel maps l onto the zerolog level set.
func ZerologLevel(l Level) zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	}
	return zerolog.Disabled
}
