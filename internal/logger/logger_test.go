package logger

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestWithComponent(t *testing.T) {
	entry := WithComponent("test-component")
	if entry == nil {
		t.Fatal("expected non-nil entry")
	}

	if val, ok := entry.Data["component"]; !ok {
		t.Error("expected component field to be set")
	} else if val != "test-component" {
		t.Errorf("expected component 'test-component', got '%v'", val)
	}
}

func TestWithNote(t *testing.T) {
	entry := WithNote("note-service", "abc-123")

	if entry.Data["component"] != "note-service" {
		t.Errorf("expected component 'note-service', got '%v'", entry.Data["component"])
	}
	if entry.Data["note_id"] != "abc-123" {
		t.Errorf("expected note_id 'abc-123', got '%v'", entry.Data["note_id"])
	}
}

func TestLoggerInit(t *testing.T) {
	if Logger == nil {
		t.Fatal("expected Logger to be initialized")
	}

	if Logger.Out != os.Stdout {
		t.Error("expected Logger output to be os.Stdout")
	}
}

func TestSetLevel(t *testing.T) {
	origLevel := Logger.GetLevel()
	defer Logger.SetLevel(origLevel)

	tests := []struct {
		name          string
		value         string
		expectedLevel logrus.Level
		wantErr       bool
	}{
		{"debug level", "debug", logrus.DebugLevel, false},
		{"info level", "info", logrus.InfoLevel, false},
		{"warn level", "warn", logrus.WarnLevel, false},
		{"error level", "error", logrus.ErrorLevel, false},
		{"DEBUG uppercase", "DEBUG", logrus.DebugLevel, false},
		{"padded trace", "  trace ", logrus.TraceLevel, false},
		{"invalid level", "invalid", logrus.InfoLevel, true}, // keeps previous level
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger.SetLevel(logrus.InfoLevel)

			err := SetLevel(tt.value)
			if tt.wantErr && err == nil {
				t.Error("expected parse error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if Logger.GetLevel() != tt.expectedLevel {
				t.Errorf("expected level %v, got %v", tt.expectedLevel, Logger.GetLevel())
			}
		})
	}
}

func TestWithComponentMultiple(t *testing.T) {
	entry1 := WithComponent("component-a")
	entry2 := WithComponent("component-b")

	if entry1.Data["component"] == entry2.Data["component"] {
		t.Error("expected different component values for different entries")
	}
}
