package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLogger_Log(t *testing.T) {
	tests := []struct {
		name    string
		level   Level
		message string
		fields  Fields
		err     error
		want    bool // should log
	}{
		{
			name:    "info message",
			level:   LevelInfo,
			message: "test message",
			fields:  Fields{"key": "value"},
			want:    true,
		},
		{
			name:    "debug below threshold",
			level:   LevelDebug,
			message: "debug message",
			want:    false,
		},
		{
			name:    "warn with err",
			level:   LevelWarn,
			message: "source failed",
			err:     errors.New("timeout"),
			want:    true,
		},
		{
			name:    "error with err",
			level:   LevelError,
			message: "error occurred",
			err:     errors.New("test error"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(LevelInfo, &buf, FormatText)

			logger.log(tt.level, tt.message, tt.fields, tt.err)

			logged := buf.Len() > 0
			if logged != tt.want {
				t.Errorf("log() logged = %v, want %v", logged, tt.want)
			}
			if tt.want && !strings.Contains(buf.String(), tt.message) {
				t.Errorf("output %q does not contain message", buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(LevelDebug, &buf, FormatJSON)

	logger.Error("fetch failed", Fields{"source": "uglkurser", "attempt": 2}, errors.New("boom"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if entry["msg"] != "fetch failed" {
		t.Errorf("msg = %v, want %q", entry["msg"], "fetch failed")
	}
	if entry["level"] != "error" {
		t.Errorf("level = %v, want error", entry["level"])
	}
	if entry["source"] != "uglkurser" {
		t.Errorf("source = %v, want uglkurser", entry["source"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want boom", entry["error"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFields_Sorted(t *testing.T) {
	kv := Fields{"b": 2, "a": 1}.keyvals()
	if len(kv) != 4 || kv[0] != "a" || kv[2] != "b" {
		t.Errorf("keyvals() = %v, want a before b", kv)
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	old := defaultLogger
	defer SetDefault(old)

	SetDefault(New(LevelDebug, &buf, FormatText))
	Debug("debug", nil)
	Info("info", nil)
	Warn("warn", nil, nil)
	Error("error", nil, errors.New("x"))

	for _, want := range []string{"debug", "info", "warn", "error"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("default logger output missing %q", want)
		}
	}
}
