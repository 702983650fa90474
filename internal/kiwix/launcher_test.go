// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kiwix

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// mockStarter records launches and flips a server "running" flag.
type mockStarter struct {
	binOnPath bool
	started   []string
	stopped   atomic.Bool
	onStart   func()
}

func (m *mockStarter) LookPath(file string) (string, error) {
	if m.binOnPath {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockStarter) Start(name string, args ...string) (func(), error) {
	m.started = append(m.started, name+" "+strings.Join(args, " "))
	if m.onStart != nil {
		m.onStart()
	}
	return func() { m.stopped.Store(true) }, nil
}

func writeZIM(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("zim"), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestEnsureRunningServerAlreadyUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	l := NewLauncher(NewClient(types.KiwixConfig{URL: srv.URL}), io.Discard)
	mock := &mockStarter{binOnPath: true}
	l.exec = mock

	stop, err := l.EnsureRunning(context.Background())
	if err != nil {
		t.Fatalf("EnsureRunning: %v", err)
	}
	if stop != nil {
		t.Error("want nil stop when server already running")
	}
	if len(mock.started) != 0 {
		t.Errorf("launched %v, want nothing", mock.started)
	}
}

func TestEnsureRunningLaunchesAndPolls(t *testing.T) {
	var up atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !up.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dir := t.TempDir()
	writeZIM(t, dir, "wikipedia_en_all_maxi_2024-01.zim")

	l := NewLauncher(NewClient(types.KiwixConfig{URL: srv.URL}), io.Discard)
	mock := &mockStarter{binOnPath: true, onStart: func() { up.Store(true) }}
	l.exec = mock
	l.binaryDirs = nil
	l.zimDirs = []string{dir}

	stop, err := l.EnsureRunning(context.Background())
	if err != nil {
		t.Fatalf("EnsureRunning: %v", err)
	}
	if stop == nil {
		t.Fatal("want stop func for launched process")
	}
	if len(mock.started) != 1 {
		t.Fatalf("started %v, want one launch", mock.started)
	}
	if !strings.Contains(mock.started[0], "wikipedia_en_all_maxi_2024-01.zim") {
		t.Errorf("launch command = %q", mock.started[0])
	}
	stop()
	if !mock.stopped.Load() {
		t.Error("stop func did not reach the starter")
	}
}

func TestEnsureRunningNoBinary(t *testing.T) {
	l := NewLauncher(NewClient(types.KiwixConfig{
		URL:        "http://127.0.0.1:1",
		HTTPConfig: types.HTTPConfig{Timeout: 100 * time.Millisecond},
	}), io.Discard)
	l.client.cfg.ProbeTimeout = 100 * time.Millisecond
	l.exec = &mockStarter{binOnPath: false}
	l.binaryDirs = nil

	if _, err := l.EnsureRunning(context.Background()); err == nil {
		t.Fatal("want error when binary is missing")
	}
}

func TestEnsureRunningNoArchive(t *testing.T) {
	l := NewLauncher(NewClient(types.KiwixConfig{
		URL:        "http://127.0.0.1:1",
		HTTPConfig: types.HTTPConfig{Timeout: 100 * time.Millisecond},
	}), io.Discard)
	l.client.cfg.ProbeTimeout = 100 * time.Millisecond
	l.exec = &mockStarter{binOnPath: true}
	l.binaryDirs = nil
	l.zimDirs = []string{t.TempDir()}

	if _, err := l.EnsureRunning(context.Background()); err == nil {
		t.Fatal("want error when no archive exists")
	}
}

func TestFindZIMPrefersWikipediaAndNewest(t *testing.T) {
	dir := t.TempDir()
	writeZIM(t, dir, "gutenberg_en_all_2023-08.zim")
	writeZIM(t, dir, "wikipedia_en_all_maxi_2023-06.zim")
	want := writeZIM(t, dir, "wikipedia_en_all_maxi_2024-01.zim")

	l := &Launcher{zimDirs: []string{dir}}
	got, ok := l.findZIM()
	if !ok {
		t.Fatal("want a match")
	}
	if got != want {
		t.Errorf("findZIM = %q, want %q", got, want)
	}
}

func TestFindZIMFallsBackToAnyArchive(t *testing.T) {
	dir := t.TempDir()
	want := writeZIM(t, dir, "wiktionary_en_all_2024-01.zim")

	l := &Launcher{zimDirs: []string{dir}}
	got, ok := l.findZIM()
	if !ok || got != want {
		t.Errorf("findZIM = %q, %v; want %q", got, ok, want)
	}
}

func TestServerPort(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://localhost:8080", "8080"},
		{"http://localhost:9999", "9999"},
		{"http://localhost", "8080"},
		{"not a url", "8080"},
	}
	for _, tt := range tests {
		if got := serverPort(tt.url); got != tt.want {
			t.Errorf("serverPort(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
