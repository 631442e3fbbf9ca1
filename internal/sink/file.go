package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gorewood/tack/internal/output"
)

// FileOutbox writes each delivery to its own TaskPaper file, grouped in a
// directory per destination.
type FileOutbox struct {
	dir      string
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
	lastPath string
}

// NewFileOutbox creates a file sink rooted at dir.
func NewFileOutbox(dir string, now func() time.Time, logger *zap.Logger) *FileOutbox {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileOutbox{
		dir:    dir,
		now:    now,
		newID:  uuid.NewString,
		logger: logger,
	}
}

// Dir returns the outbox root.
func (f *FileOutbox) Dir() string {
	return f.dir
}

// LastPath returns the file written by the most recent delivery.
func (f *FileOutbox) LastPath() string {
	return f.lastPath
}

// Deliver writes text to <dir>/<destination>/<YYYYMMDD-HHMMSS>-<uuid>.taskpaper.
func (f *FileOutbox) Deliver(ctx context.Context, destination, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sub := filepath.Join(f.dir, SafeName(destination))
	if err := os.MkdirAll(sub, 0o755); err != nil {
		return output.NewSystemErrorWithCause("failed to create outbox directory", err)
	}

	name := fmt.Sprintf("%s-%s.taskpaper", f.now().Format("20060102-150405"), f.newID())
	path := filepath.Join(sub, name)
	if err := atomicWrite(path, []byte(text)); err != nil {
		return output.NewSystemErrorWithCause("failed to write outbox file", err)
	}

	f.lastPath = path
	f.logger.Debug("wrote outbox file", zap.String("path", path))
	return nil
}

// SafeName turns a destination into a single path element.
func SafeName(destination string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, strings.TrimSpace(destination))
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

// atomicWrite writes data to path using write-to-temp-then-rename.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.taskpaper")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
