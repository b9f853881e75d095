package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRunFetch_URL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"title":"Hello"},{"id":2,"title":"World"}]`))
	}))
	defer ts.Close()

	output, err := executeCmd(t, "fetch", "--url", ts.URL)
	if err != nil {
		t.Fatalf("fetch command error = %v", err)
	}
	want := "   1  Hello\n   2  World\n"
	if output != want {
		t.Errorf("output = %q, want %q", output, want)
	}
}

func TestRunFetch_ItemsPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":7,"title":"Wrapped"}]}`))
	}))
	defer ts.Close()

	output, err := executeCmd(t, "fetch", "--url", ts.URL, "--items-path", "$.data")
	if err != nil {
		t.Fatalf("fetch command error = %v", err)
	}
	if !strings.Contains(output, "Wrapped") {
		t.Errorf("output = %q, want Wrapped", output)
	}
}

func TestRunFetch_Failure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	output, err := executeCmd(t, "fetch", "--url", ts.URL)
	if err == nil {
		t.Fatal("fetch command expected error for failed load, got nil")
	}
	if !strings.HasPrefix(output, "Error: ") {
		t.Errorf("output = %q, want error line", output)
	}
	if !strings.Contains(output, "503") {
		t.Errorf("output = %q, want status code in message", output)
	}
}

func TestRunFetch_Config(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Key") != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":3,"title":"Configured"}]`))
	}))
	defer ts.Close()

	configPath := writeFile(t, "config.yaml", "source:\n  url: "+ts.URL+"\n  headers:\n    X-Key: abc\n")

	output, err := executeCmd(t, "fetch", "-c", configPath)
	if err != nil {
		t.Fatalf("fetch command error = %v", err)
	}
	if !strings.Contains(output, "Configured") {
		t.Errorf("output = %q, want Configured", output)
	}
}

func TestRunFetch_ConfigAndURLExclusive(t *testing.T) {
	configPath := writeFile(t, "config.yaml", "title: Posts\n")

	if _, err := executeCmd(t, "fetch", "-c", configPath, "--url", "https://example.com"); err == nil {
		t.Error("fetch command expected error for -c with --url, got nil")
	}
}

func TestRunFetch_InvalidURL(t *testing.T) {
	if _, err := executeCmd(t, "fetch", "--url", "ftp://example.com/posts"); err == nil {
		t.Error("fetch command expected error for ftp URL, got nil")
	}
}
