package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewWithOutputLevel(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		l := NewWithOutput(&bytes.Buffer{}, tt.level, "text")
		if l.GetLevel() != tt.want {
			t.Errorf("level %q: got %v, want %v", tt.level, l.GetLevel(), tt.want)
		}
	}
}

func TestNewWritesToStdout(t *testing.T) {
	l := New("warn", "json")

	if l.Out != os.Stdout {
		t.Errorf("output = %v, want os.Stdout", l.Out)
	}
	if l.GetLevel() != logrus.WarnLevel {
		t.Errorf("level = %v, want warn", l.GetLevel())
	}
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("formatter = %T, want *logrus.JSONFormatter", l.Formatter)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "info", "json")

	l.WithFields(logrus.Fields{"item_id": 42}).Info("Wishlist item added")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "Wishlist item added" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["item_id"] != float64(42) {
		t.Errorf("item_id = %v", entry["item_id"])
	}
}

func TestTextFormatSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "info", "text")

	l.Debug("hidden")
	l.Info("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("debug entry written at info level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("info entry missing")
	}
}
