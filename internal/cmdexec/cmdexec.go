// Package cmdexec wraps subprocess invocation for the package manager
// CLIs this tool talks to.
package cmdexec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"

	"github.com/quay/zlog"
)

// DefaultTimeout is applied when the caller's context carries no
// deadline. Package manager CLIs are expected to answer well within it.
const DefaultTimeout = 30 * time.Second

// Runner runs a command and reports its exit code and output. The
// indirection exists so collectors and validators can be tested without
// the underlying CLIs installed.
type Runner interface {
	Run(ctx context.Context, argv ...string) (exitCode int, stdout, stderr string, err error)
}

// System is a Runner backed by os/exec.
type System struct{}

var _ Runner = System{}

// Run executes argv[0] with the remaining arguments.
//
// A non-zero exit is not an error: it's reported through the exit code
// with err == nil. Err is reserved for failures to run at all (missing
// binary, timeout, canceled context).
func (System) Run(ctx context.Context, argv ...string) (int, string, string, error) {
	if len(argv) == 0 {
		return -1, "", "", errors.New("cmdexec: empty argv")
	}
	if _, ok := ctx.Deadline(); !ok {
		var done context.CancelFunc
		ctx, done = context.WithTimeout(ctx, DefaultTimeout)
		defer done()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return 0, stdout.String(), stderr.String(), nil
	case errors.As(err, new(*exec.ExitError)):
		zlog.Debug(ctx).
			Str("component", "internal/cmdexec/System.Run").
			Str("cmd", argv[0]).
			Int("exit", cmd.ProcessState.ExitCode()).
			Msg("command exited nonzero")
		return cmd.ProcessState.ExitCode(), stdout.String(), stderr.String(), nil
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return -1, stdout.String(), stderr.String(), err
	}
}

// Available reports whether the named command can be found in PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
