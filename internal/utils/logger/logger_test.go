package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/open-edge-platform/host-probe/internal/utils/logger"
)

func TestLoggerWritesToStderrWriter(t *testing.T) {
	var buf bytes.Buffer
	old := logger.ReplaceStderrWriter(&buf)
	defer logger.ReplaceStderrWriter(old)

	log := logger.Logger()
	log.Infof("probe-log-capture")

	if !strings.Contains(buf.String(), "probe-log-capture") {
		t.Errorf("expected captured output to contain message, got: %s", buf.String())
	}
}

func TestSetLogLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	old := logger.ReplaceStderrWriter(&buf)
	defer logger.ReplaceStderrWriter(old)

	logger.SetLogLevel("info")
	logger.Logger().Debugf("hidden-debug-line")
	if strings.Contains(buf.String(), "hidden-debug-line") {
		t.Errorf("debug output should be suppressed at info level")
	}

	logger.SetLogLevel("debug")
	defer logger.SetLogLevel("info")
	logger.Logger().Debugf("visible-debug-line")
	if !strings.Contains(buf.String(), "visible-debug-line") {
		t.Errorf("debug output should be visible at debug level")
	}
}

func TestWithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	old := logger.ReplaceStderrWriter(&buf)
	defer logger.ReplaceStderrWriter(old)

	logger.With("probe", "libc").Infof("field-attach-check")

	out := buf.String()
	if !strings.Contains(out, "field-attach-check") || !strings.Contains(out, "libc") {
		t.Errorf("expected message with attached field, got: %s", out)
	}
}
