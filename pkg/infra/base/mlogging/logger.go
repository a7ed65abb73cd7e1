// 指示: miu200521358
// Package mlogging は zap を使ったロガー実装を提供する。
package mlogging

import (
	"fmt"
	"io"
	"os"

	"github.com/miu200521358/mu_humanoid/pkg/shared/base/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger は zap を使った ILogger 実装。
type Logger struct {
	level logging.LogLevel
	atom  zap.AtomicLevel
	sugar *zap.SugaredLogger
}

// NewLogger は出力先を指定してロガーを生成する。出力先が nil の場合は標準エラーへ出力する。
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	encoderConfig.CallerKey = ""
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), atom)
	return &Logger{
		level: logging.LOG_LEVEL_INFO,
		atom:  atom,
		sugar: zap.New(core).Sugar(),
	}
}

// Debug はデバッグログを出力する。
func (l *Logger) Debug(format string, params ...any) {
	l.sugar.Debug(formatMessage(format, params...))
}

// Info は情報ログを出力する。
func (l *Logger) Info(format string, params ...any) {
	l.sugar.Info(formatMessage(format, params...))
}

// Warn は警告ログを出力する。
func (l *Logger) Warn(format string, params ...any) {
	l.sugar.Warn(formatMessage(format, params...))
}

// Error はエラーログを出力する。
func (l *Logger) Error(format string, params ...any) {
	l.sugar.Error(formatMessage(format, params...))
}

// SetLevel はログレベルを設定する。
func (l *Logger) SetLevel(level logging.LogLevel) {
	l.level = level
	l.atom.SetLevel(toZapLevel(level))
}

// Level は現在のログレベルを返す。
func (l *Logger) Level() logging.LogLevel {
	return l.level
}

// Sync はバッファを書き出す。
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func formatMessage(format string, params ...any) string {
	if len(params) == 0 {
		return format
	}
	return fmt.Sprintf(format, params...)
}

func toZapLevel(level logging.LogLevel) zapcore.Level {
	switch level {
	case logging.LOG_LEVEL_DEBUG:
		return zapcore.DebugLevel
	case logging.LOG_LEVEL_WARN:
		return zapcore.WarnLevel
	case logging.LOG_LEVEL_ERROR:
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}
