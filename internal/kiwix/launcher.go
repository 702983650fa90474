// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kiwix

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	binName = "kiwix-serve"

	// startupPolls and startupInterval bound how long EnsureRunning
	// waits for a freshly launched server to answer.
	startupPolls    = 10
	startupInterval = 500 * time.Millisecond
)

// starter abstracts process launching for testing.
type starter interface {
	LookPath(file string) (string, error)
	Start(name string, args ...string) (stop func(), err error)
}

// osStarter is the production starter backed by os/exec.
type osStarter struct{}

func (o *osStarter) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osStarter) Start(name string, args ...string) (func(), error) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}, nil
}

// Launcher starts a local kiwix-serve process when no server answers at
// the configured URL. It looks for the binary and a Wikipedia ZIM archive
// in conventional locations.
type Launcher struct {
	client *Client
	exec   starter
	out    io.Writer

	binaryDirs []string
	zimDirs    []string
}

// NewLauncher builds a launcher for the given client. Progress messages
// go to w.
func NewLauncher(client *Client, w io.Writer) *Launcher {
	home, _ := os.UserHomeDir()
	return &Launcher{
		client: client,
		exec:   &osStarter{},
		out:    w,
		binaryDirs: []string{
			filepath.Join(home, ".local", "bin"),
			"/usr/local/bin",
			"/usr/bin",
		},
		zimDirs: []string{
			filepath.Join(home, "wikipedia-offline"),
			filepath.Join(home, "Downloads"),
			"/data/wikipedia",
			"/var/lib/kiwix",
		},
	}
}

// EnsureRunning pings the configured server and, if it does not answer,
// launches kiwix-serve against a discovered ZIM archive and waits for it
// to come up. The returned stop function terminates a process this call
// started; it is nil when the server was already running.
func (l *Launcher) EnsureRunning(ctx context.Context) (func(), error) {
	if l.client.Ping(ctx) {
		return nil, nil
	}

	bin, ok := l.findBinary()
	if !ok {
		return nil, fmt.Errorf("kiwix server not reachable at %s and %s not installed", l.client.BaseURL(), binName)
	}
	zim, ok := l.findZIM()
	if !ok {
		return nil, fmt.Errorf("no .zim archive found in %s", strings.Join(l.zimDirs, ", "))
	}

	port := serverPort(l.client.BaseURL())
	fmt.Fprintf(l.out, "starting %s on port %s with %s\n", binName, port, filepath.Base(zim))
	stop, err := l.exec.Start(bin, "--port", port, zim)
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", binName, err)
	}

	for i := 0; i < startupPolls; i++ {
		select {
		case <-ctx.Done():
			stop()
			return nil, ctx.Err()
		case <-time.After(startupInterval):
		}
		if l.client.Ping(ctx) {
			return stop, nil
		}
	}
	stop()
	return nil, fmt.Errorf("%s did not answer on %s after %v", binName, l.client.BaseURL(), startupPolls*startupInterval)
}

// findBinary checks the conventional install directories first, then PATH.
func (l *Launcher) findBinary() (string, bool) {
	for _, dir := range l.binaryDirs {
		p := filepath.Join(dir, binName)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	if p, err := l.exec.LookPath(binName); err == nil {
		return p, true
	}
	return "", false
}

// findZIM scans the conventional archive directories for a Wikipedia ZIM
// file, preferring archives whose name mentions wikipedia, and within a
// tier the lexicographically last name so dated snapshots favor the
// newest.
func (l *Launcher) findZIM() (string, bool) {
	var wikipedia, other []string
	for _, dir := range l.zimDirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.zim"))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if strings.Contains(strings.ToLower(filepath.Base(m)), "wikipedia") {
				wikipedia = append(wikipedia, m)
			} else {
				other = append(other, m)
			}
		}
	}
	for _, tier := range [][]string{wikipedia, other} {
		if len(tier) > 0 {
			sort.Strings(tier)
			return tier[len(tier)-1], true
		}
	}
	return "", false
}

// serverPort extracts the port from a base URL, defaulting to 8080.
func serverPort(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Port() == "" {
		return "8080"
	}
	return u.Port()
}
