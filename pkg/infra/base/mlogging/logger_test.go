// 指示: miu200521358
package mlogging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/miu200521358/mu_humanoid/pkg/shared/base/logging"
)

func TestLoggerRespectsLevel(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	logger := NewLogger(buf)
	logger.SetLevel(logging.LOG_LEVEL_WARN)

	logger.Info("ボーン推定: %s", "hips")
	logger.Warn("候補が曖昧です: %s", "leftHand")
	_ = logger.Sync()

	out := buf.String()
	if strings.Contains(out, "ボーン推定") {
		t.Fatalf("info should be filtered: %s", out)
	}
	if !strings.Contains(out, "候補が曖昧です: leftHand") || !strings.Contains(out, "WARN") {
		t.Fatalf("warn should be written: %s", out)
	}
	if logger.Level() != logging.LOG_LEVEL_WARN {
		t.Fatalf("level mismatch: %s", logger.Level())
	}
}

func TestDefaultLoggerSwap(t *testing.T) {
	logger := NewLogger(bytes.NewBuffer(nil))
	prevLogger := logging.DefaultLogger()
	logging.SetDefaultLogger(logger)
	defer logging.SetDefaultLogger(prevLogger)

	if logging.DefaultLogger() != logging.ILogger(logger) {
		t.Fatalf("default logger should be replaced")
	}
}

func TestParseLogLevel(t *testing.T) {
	if level, ok := logging.ParseLogLevel("debug"); !ok || level != logging.LOG_LEVEL_DEBUG {
		t.Fatalf("debug parse mismatch: %s %t", level, ok)
	}
	if _, ok := logging.ParseLogLevel("trace"); ok {
		t.Fatalf("unknown level should not parse")
	}
}
