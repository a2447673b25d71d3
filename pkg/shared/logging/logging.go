// 指示: miu200521358
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level はログレベルを表す。
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Options はロガー生成時の設定を表す。
type Options struct {
	// Level は出力する最小レベル。
	Level Level
	// Output は出力先。nil の場合は標準エラー。
	Output io.Writer
	// JSON はJSON形式で出力するか。
	JSON bool
}

// Logger はフォーマット文字列で出力するロガーを表す。
type Logger struct {
	slogger *slog.Logger
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// DefaultOptions はCLI向けの既定設定を返す。
func DefaultOptions() Options {
	return Options{Level: LevelInfo, Output: os.Stderr}
}

// New はロガーを生成する。
func New(opts Options) *Logger {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}
	return &Logger{slogger: slog.New(handler)}
}

// DefaultLogger は既定ロガーを返す。未設定の場合は既定設定で生成する。
func DefaultLogger() *Logger {
	defaultMu.RLock()
	logger := defaultLogger
	defaultMu.RUnlock()
	if logger != nil {
		return logger
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(DefaultOptions())
	}
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを差し替える。nil の場合は出力を止める。
func SetDefaultLogger(logger *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if logger == nil {
		logger = New(Options{Level: LevelError + 1, Output: io.Discard})
	}
	defaultLogger = logger
}

// Slog は内部のslog.Loggerを返す。
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return nil
	}
	return l.slogger
}

// Debug はDEBUGログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.log(LevelDebug, format, params...)
}

// Info はINFOログを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.log(LevelInfo, format, params...)
}

// Warn はWARNログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.log(LevelWarn, format, params...)
}

// Error はERRORログを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.log(LevelError, format, params...)
}

func (l *Logger) log(level Level, format string, params ...any) {
	if l == nil || l.slogger == nil {
		return
	}
	if len(params) == 0 {
		l.slogger.Log(context.Background(), level, format)
		return
	}
	l.slogger.Log(context.Background(), level, fmt.Sprintf(format, params...))
}
