package utils

import (
	"strings"
	"testing"
)

func TestFileWithLineNum(t *testing.T) {
	// called the way a logger calls it, one frame below the reporting site
	if file := func() string { return FileWithLineNum() }(); !strings.Contains(file, "utils_test.go:") {
		t.Fatalf("expected caller in utils_test.go, got %q", file)
	}
}

func TestCallerFrame(t *testing.T) {
	frame := func() string { return CallerFrame().File }()
	if !strings.HasSuffix(frame, "utils_test.go") {
		t.Fatalf("expected caller frame in utils_test.go, got %q", frame)
	}
}

func TestCheckTruth(t *testing.T) {
	for _, v := range []string{"true", "1", "yes", "TRUE"} {
		if !CheckTruth(v) {
			t.Errorf("%q should be true", v)
		}
	}
	for _, v := range []string{"", "false", "FALSE", "0"} {
		if CheckTruth(v) {
			t.Errorf("%q should be false", v)
		}
	}
	if !CheckTruth("", "false", "on") {
		t.Errorf("any true value wins")
	}
}
