// 指示: miu200521358
// Package logging はログ出力の契約と既定ロガーの保持を提供する。
package logging

import "sync"

// LogLevel はログレベルを表す。
type LogLevel int

const (
	// LOG_LEVEL_DEBUG はデバッグ。
	LOG_LEVEL_DEBUG LogLevel = iota
	// LOG_LEVEL_INFO は情報。
	LOG_LEVEL_INFO
	// LOG_LEVEL_WARN は警告。
	LOG_LEVEL_WARN
	// LOG_LEVEL_ERROR はエラー。
	LOG_LEVEL_ERROR
)

// String はレベル名を返す。
func (l LogLevel) String() string {
	switch l {
	case LOG_LEVEL_DEBUG:
		return "debug"
	case LOG_LEVEL_INFO:
		return "info"
	case LOG_LEVEL_WARN:
		return "warn"
	case LOG_LEVEL_ERROR:
		return "error"
	}
	return "unknown"
}

// ParseLogLevel はレベル名を解析する。未知の名前は LOG_LEVEL_INFO と false を返す。
func ParseLogLevel(name string) (LogLevel, bool) {
	switch name {
	case "debug", "DEBUG":
		return LOG_LEVEL_DEBUG, true
	case "info", "INFO", "":
		return LOG_LEVEL_INFO, true
	case "warn", "WARN", "warning":
		return LOG_LEVEL_WARN, true
	case "error", "ERROR":
		return LOG_LEVEL_ERROR, true
	}
	return LOG_LEVEL_INFO, false
}

// ILogger はログ出力の契約を表す。
type ILogger interface {
	Debug(format string, params ...any)
	Info(format string, params ...any)
	Warn(format string, params ...any)
	Error(format string, params ...any)
	SetLevel(level LogLevel)
	Level() LogLevel
}

var (
	defaultMu     sync.RWMutex
	defaultLogger ILogger
)

// DefaultLogger は既定ロガーを返す。未設定の場合は nil を返す。
func DefaultLogger() ILogger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger は既定ロガーを設定する。
func SetDefaultLogger(logger ILogger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}
