package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/config"
	"github.com/gorewood/tack/internal/expand"
	"github.com/gorewood/tack/internal/location"
	"github.com/gorewood/tack/internal/output"
	"github.com/gorewood/tack/internal/templates"
)

// fixedNow is Friday 16 January 2026, 09:05 UTC.
var fixedNow = time.Date(2026, time.January, 16, 9, 5, 0, 0, time.UTC)

// scriptedPrompter answers prompts from a map and confirmations with a
// fixed reply.
type scriptedPrompter struct {
	answers    map[string]string
	confirm    bool
	confirmErr error

	asked     []string
	confirmed []string
}

func (s *scriptedPrompter) Prompt(_ context.Context, label string) (string, error) {
	s.asked = append(s.asked, label)
	value, ok := s.answers[label]
	if !ok {
		return "", expand.ErrCancelled
	}
	return value, nil
}

func (s *scriptedPrompter) Confirm(_ context.Context, title, message string) (bool, error) {
	s.confirmed = append(s.confirmed, title+": "+message)
	return s.confirm, s.confirmErr
}

// recordingOpener captures opened URLs.
type recordingOpener struct {
	urls []string
	err  error
}

func (r *recordingOpener) Open(_ context.Context, rawURL string) error {
	r.urls = append(r.urls, rawURL)
	return r.err
}

// testDeps returns deps with a temporary template library holding files.
func testDeps(t *testing.T, files map[string]string) *deps {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name+templates.Extension)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing template: %v", err)
		}
	}

	settings := config.Default()
	settings.Sink.Outbox = filepath.Join(t.TempDir(), "outbox")

	return &deps{
		Settings: settings,
		Now:      func() time.Time { return fixedNow },
		Locator:  location.Static{Coords: expand.Coordinates{Latitude: 51.5, Longitude: -0.12}},
		Opener:   &recordingOpener{},
		Library:  &templates.Library{ProjectDir: dir},
		Logger:   zap.NewNop(),
	}
}

// newTestRoot wraps sub in a root carrying the persistent flags commands
// read, without loading env files.
func newTestRoot(sub *cobra.Command) *cobra.Command {
	root := &cobra.Command{Use: "tack", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().Bool("json", false, "")
	root.PersistentFlags().String("color", output.ColorNever, "")
	root.PersistentFlags().String("log-level", "", "")
	root.PersistentFlags().String("config", "", "")
	root.AddCommand(sub)
	return root
}

// runSub executes sub under a test root and returns stdout and stderr.
func runSub(t *testing.T, sub *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	root := newTestRoot(sub)
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(append([]string{sub.Name()}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
