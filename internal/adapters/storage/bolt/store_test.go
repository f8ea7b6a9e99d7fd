package bolt_test

import (
	"path/filepath"
	"testing"

	"github.com/PabloGalante/soul-oracle/internal/adapters/storage/bolt"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oracle.bolt")

	s, err := bolt.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Set("soul_oracle_chat_EMOTION", `[{"id":"greeting"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("soul_oracle_journals", `[]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Remove("soul_oracle_journals"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = bolt.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	v, ok, err := s.Get("soul_oracle_chat_EMOTION")
	if err != nil || !ok {
		t.Fatalf("expected stored value, ok=%v err=%v", ok, err)
	}
	if v != `[{"id":"greeting"}]` {
		t.Fatalf("unexpected value %q", v)
	}

	if _, ok, _ := s.Get("soul_oracle_journals"); ok {
		t.Fatalf("expected removed key to stay removed")
	}
}
