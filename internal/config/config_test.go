package config

import (
	"testing"
	"time"
)

func TestParseInstant(t *testing.T) {
	if got, err := ParseInstant(""); err != nil || !got.IsZero() {
		t.Fatalf("empty input should yield zero time: %v %v", got, err)
	}

	got, err := ParseInstant("1700000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("unix seconds mismatch: %v", got)
	}

	got, err = ParseInstant("1700000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.UnixMilli(1700000000000)) {
		t.Fatalf("unix millis mismatch: %v", got)
	}

	got, err = ParseInstant("2023-11-14T22:13:20Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("rfc3339 mismatch: %v", got)
	}

	if _, err := ParseInstant("not-a-time"); err == nil {
		t.Fatalf("expected error for invalid input")
	}
}
