package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew_FileOutput(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(Config{Level: "debug", Dir: dir, Filename: "test.log"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer logger.Close()

	logger.Component("test").Info("hello", "answer", 42)

	data, err := os.ReadFile(filepath.Join(dir, "test.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output in file")
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "verbose"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestParseLevel_Defaults(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"info", false},
		{"DEBUG", false},
		{"warning", false},
		{"error", false},
		{"trace", true},
	}
	for _, tt := range tests {
		if _, err := parseLevel(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("parseLevel(%q) err=%v, wantErr=%v", tt.in, err, tt.wantErr)
		}
	}
}
