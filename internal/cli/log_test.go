package cli

import (
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("pass done") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("face accepted") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("face accepted") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("cache write failed") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("recognized", "faces", 7)

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("missing HH:MM:SS.ms timestamp: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "faces=7") {
		t.Errorf("key/value pair not logged: %q", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("recognized", "model", "bracket.json")

	out := buf.String()
	if !strings.Contains(out, "recognized") || !strings.Contains(out, "model=bracket.json") {
		t.Errorf("progress message missing: %q", out)
	}
	if !strings.Contains(out, "elapsed=") {
		t.Errorf("elapsed duration missing: %q", out)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if loggerFromContext(ctx) != custom {
		t.Fatal("loggerFromContext did not return the attached logger")
	}
}

func TestCommandsLogThroughContext(t *testing.T) {
	var logs bytes.Buffer
	root := newRoot(New(&logs, LogInfo))
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"--verbose", "--cache-dir", t.TempDir(), "inspect", bracketFixture})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), "built graph") {
		t.Errorf("inspect did not log through the command logger:\n%s", logs.String())
	}
}
