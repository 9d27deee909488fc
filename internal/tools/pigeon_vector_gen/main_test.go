package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerate_CheckedInVectorsAreCurrent(t *testing.T) {
	root := filepath.Join("..", "..", "..", "testdata", "conformance", "pigeon")
	var out bytes.Buffer
	if err := generate(root, true, &out); err != nil {
		t.Fatalf("generate: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "valid\tdemo.msg\t") {
		t.Fatalf("demo vector missing from output:\n%s", out.String())
	}
}

func TestGenerate_WritesExpectations(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "invalid"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	msg := "author @ed25519:AAAA\nsequence 1\nkind 7\n"
	if err := os.WriteFile(filepath.Join(root, "invalid", "kind.msg"), []byte(msg), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := generate(root, true, &bytes.Buffer{}); err == nil {
		t.Fatalf("check should fail without a .want file")
	}
	if err := generate(root, false, &bytes.Buffer{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(root, "invalid", "kind.want"))
	if err != nil {
		t.Fatalf("read want: %v", err)
	}
	if string(got) != "PGN-STR-061 3\n" {
		t.Fatalf("want file: got %q", got)
	}
	if err := generate(root, true, &bytes.Buffer{}); err != nil {
		t.Fatalf("check after generate: %v", err)
	}
}
