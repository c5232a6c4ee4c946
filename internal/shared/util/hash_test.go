package util

import "testing"

func TestShortHash(t *testing.T) {
	data := []byte("%PDF-1.4 sample")
	got := ShortHash(data)
	if got != ShortHash(data) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 12 {
		t.Fatalf("expected 12 hex characters, got %d", len(got))
	}
	if got == ShortHash([]byte("other")) {
		t.Fatalf("different inputs should not collide trivially")
	}
}

func TestSanitizeFileName(t *testing.T) {
	got, err := SanitizeFileName(" annual report.pdf ")
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if got != "annual report.pdf" {
		t.Fatalf("unexpected result: %q", got)
	}

	got, err = SanitizeFileName(`dir/sub\file.pdf`)
	if err != nil {
		t.Fatalf("SanitizeFileName: %v", err)
	}
	if got != "dir_sub_file.pdf" {
		t.Fatalf("unexpected result: %q", got)
	}

	for _, bad := range []string{"", "   ", "../etc/passwd"} {
		if _, err := SanitizeFileName(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
