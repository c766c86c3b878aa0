package util

import (
	"errors"
	"strings"
	"testing"
)

func TestUserNamespace(t *testing.T) {
	got := UserNamespace("guest:12345")
	if got != UserNamespace("guest:12345") {
		t.Fatalf("expected stable namespace, got %s", got)
	}
	if got == UserNamespace("guest:12346") {
		t.Fatal("expected distinct users to get distinct namespaces")
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("namespace contains non-hex character: %c", ch)
		}
	}
}

func TestNewObjectKey(t *testing.T) {
	a, err := NewObjectKey("u1", "r1-classic.html")
	if err != nil {
		t.Fatalf("new key: %v", err)
	}
	b, err := NewObjectKey("u1", "r1-classic.html")
	if err != nil {
		t.Fatalf("new key: %v", err)
	}
	if a == b {
		t.Fatal("expected random prefixes to differ")
	}
	if !strings.HasSuffix(a, "_r1-classic.html") {
		t.Fatalf("key %q lost the file name", a)
	}
	if !OwnsKey("u1", a) {
		t.Fatalf("expected u1 to own %q", a)
	}
	if OwnsKey("u2", a) {
		t.Fatalf("expected u2 not to own %q", a)
	}
	if _, err := NewObjectKey("u1", "../x"); !errors.Is(err, ErrInvalidFileName) {
		t.Fatalf("expected ErrInvalidFileName, got %v", err)
	}
}

func TestOwnsKeyRejectsUncleanPaths(t *testing.T) {
	ns := UserNamespace("u1")
	for _, key := range []string{"", ns, ns + "/../other/x", ns + "//x", "/" + ns + "/x"} {
		if OwnsKey("u1", key) {
			t.Errorf("OwnsKey(%q) = true", key)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "resume.html", want: "resume.html"},
		{in: "  my resume.txt ", want: "my_resume.txt"},
		{in: "a/b\\c.json", want: "a_b_c.json"},
		{in: "Résumé.html", want: "R_sum_.html"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("SanitizeFileName(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	long, err := SanitizeFileName(strings.Repeat("x", 300) + ".html")
	if err != nil {
		t.Fatalf("long name: %v", err)
	}
	if len(long) != maxFileName || !strings.HasSuffix(long, ".html") {
		t.Fatalf("long name not truncated with extension: %d %q", len(long), long[len(long)-8:])
	}
}
