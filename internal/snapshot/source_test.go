package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSourceLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	payload := `{
		"chain_id": 1,
		"address": "0x1111111111111111111111111111111111111111",
		"sponsor": "0x2222222222222222222222222222222222222222",
		"start_ms": 1000,
		"purchase_expiry_ms": 2000,
		"deal_deadline_ms": 5000
	}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	record, err := NewFileSource(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ChainID != 1 || record.StartMs != 1000 {
		t.Fatalf("record mismatch: %+v", record)
	}
}

func TestFileSourceLoadMissing(t *testing.T) {
	source := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := source.Load(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFileSourceLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := NewFileSource(path).Load(context.Background()); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress(" 0x1111111111111111111111111111111111111111 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if addr.Hex() != "0x1111111111111111111111111111111111111111" {
		t.Fatalf("address mismatch: %s", addr.Hex())
	}

	if _, err := ParseAddress("nonsense"); err == nil {
		t.Fatalf("expected error for invalid address")
	}
}
