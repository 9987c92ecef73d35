package commands

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/erraggy/oasir/parser"
)

// zapLogger adapts zap.SugaredLogger to parser.Logger.
type zapLogger struct {
	logger *zap.SugaredLogger
}

// NewZapLogger returns a console logger writing to w. Verbose output
// includes debug records; otherwise only warnings and errors are written.
func NewZapLogger(w io.Writer, verbose bool) parser.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	return AdaptZap(zap.New(core).Sugar().Named("oasir"))
}

// AdaptZap wraps s as a parser.Logger. A nil s yields a no-op logger.
func AdaptZap(s *zap.SugaredLogger) parser.Logger {
	if s == nil {
		return parser.NopLogger{}
	}
	return &zapLogger{logger: s}
}

func (z *zapLogger) Debug(msg string, attrs ...any) { z.logger.Debugw(msg, attrs...) }
func (z *zapLogger) Info(msg string, attrs ...any)  { z.logger.Infow(msg, attrs...) }
func (z *zapLogger) Warn(msg string, attrs ...any)  { z.logger.Warnw(msg, attrs...) }
func (z *zapLogger) Error(msg string, attrs ...any) { z.logger.Errorw(msg, attrs...) }

func (z *zapLogger) With(attrs ...any) parser.Logger {
	return &zapLogger{logger: z.logger.With(attrs...)}
}
