package util

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteJSONNoHTMLEscape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "dev.json")

	v := map[string]any{"b": "A & B <C>", "a": []int{1, 2}}
	if err := WriteJSON(path, v, 4); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "{\n    \"a\": [\n        1,\n        2\n    ],\n    \"b\": \"A & B <C>\"\n}\n"
	if string(data) != want {
		t.Errorf("WriteJSON wrote %q, want %q", data, want)
	}

	var back map[string]any
	if err := ReadJSON(path, &back); err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if back["b"] != "A & B <C>" {
		t.Errorf("round trip = %v", back)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestEncodeJSONCompact(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, []string{"x"}, 0); err != nil {
		t.Fatalf("EncodeJSON() error: %v", err)
	}
	if buf.String() != "[\"x\"]\n" {
		t.Errorf("EncodeJSON = %q", buf.String())
	}
}

func TestReadJSONMissing(t *testing.T) {
	var v any
	if err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &v); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNewProxyFunc(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "https://api.openai.com/v1/chat/completions", nil)

	u, err := NewProxyFunc("http://proxy.local:3128")(req)
	if err != nil {
		t.Fatalf("proxy func error: %v", err)
	}
	if u.Host != "proxy.local:3128" {
		t.Errorf("proxy host = %q", u.Host)
	}

	c := NewHTTPClient(5*time.Second, "")
	if c.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", c.Timeout)
	}
}
