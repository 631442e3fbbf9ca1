package sink

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"github.com/gorewood/tack/internal/output"
)

// Opener hands a URL to the operating system.
type Opener interface {
	Open(ctx context.Context, rawURL string) error
}

// ExecOpener opens URLs with the platform's opener command.
type ExecOpener struct {
	name string
	args []string
}

// NewExecOpener returns the opener for the current platform:
// open on macOS, rundll32 on Windows, xdg-open elsewhere.
func NewExecOpener() *ExecOpener {
	switch runtime.GOOS {
	case "darwin":
		return &ExecOpener{name: "open"}
	case "windows":
		return &ExecOpener{name: "rundll32", args: []string{"url.dll,FileProtocolHandler"}}
	default:
		return &ExecOpener{name: "xdg-open"}
	}
}

// Command returns the program and fixed arguments used to open URLs.
func (o *ExecOpener) Command() (string, []string) {
	return o.name, o.args
}

// Open runs the opener with rawURL as its final argument.
// Returns an *output.ExitError on failure.
func (o *ExecOpener) Open(ctx context.Context, rawURL string) error {
	args := append(append([]string{}, o.args...), rawURL)
	cmd := exec.CommandContext(ctx, o.name, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return output.NewSystemErrorWithCause(o.name+" not found: cannot open URLs on this system", err)
		}

		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return output.NewSystemErrorWithCause("opening URL failed: "+errMsg, err)
	}
	return nil
}
