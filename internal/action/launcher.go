package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// ErrEmptyCommand is returned by launchers given no arguments.
var ErrEmptyCommand = errors.New("empty command")

// LaunchError wraps a failure to start or wait for a command.
type LaunchError struct {
	Args []string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %q: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Launcher starts external commands.
type Launcher interface {
	Launch(ctx context.Context, args []string, block bool) error
}

// ExecLauncher runs commands with os/exec. The child inherits the daemon's
// stdout and stderr.
type ExecLauncher struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

// NewExecLauncher returns a launcher writing child output to the daemon's
// own stdout/stderr.
func NewExecLauncher(logger *slog.Logger) *ExecLauncher {
	return &ExecLauncher{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// Launch starts args[0] with the remaining arguments. With block set it
// waits for the child to exit, which stalls the caller (the event loop) for
// the child's lifetime. Otherwise the child is reaped in the background.
// A non-zero exit status is logged, not returned; only failing to run the
// command is an error.
func (l *ExecLauncher) Launch(ctx context.Context, args []string, block bool) error {
	if len(args) == 0 {
		return &LaunchError{Err: ErrEmptyCommand}
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr
	if err := cmd.Start(); err != nil {
		return &LaunchError{Args: args, Err: err}
	}

	if !block {
		go l.reap(cmd, args)
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		l.logExit(args, err)
	case <-ctx.Done():
		// Stop waiting on shutdown; the child keeps running and is reaped
		// in the background.
		go func() { l.logExit(args, <-done) }()
	}
	return nil
}

func (l *ExecLauncher) reap(cmd *exec.Cmd, args []string) {
	l.logExit(args, cmd.Wait())
}

func (l *ExecLauncher) logExit(args []string, err error) {
	if err == nil || l.Logger == nil {
		return
	}
	l.Logger.Debug("command exited with error", "command", strings.Join(args, " "), "error", err)
}
