package scraper

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps draining stdout/stderr after the
// worker exits, in case a grandchild inherited the pipes.
const waitDelay = 2 * time.Second

// Worker describes how to start one extraction worker process.
type Worker struct {
	// Bin is the executable: absolute, relative, or resolved via $PATH.
	Bin string

	// Args are fixed flags placed before the URL.
	Args []string

	// Env is appended to the parent environment.
	Env []string
}

// Resolve returns the executable path, or an error if it does not exist
// or is not executable.
func (w Worker) Resolve() (string, error) {
	if w.Bin == "" {
		return "", fmt.Errorf("worker binary not configured")
	}
	return exec.LookPath(w.Bin)
}

// Spawn starts the worker at path for url. The URL is the only positional
// argument and follows "--" so it can never be read as a flag.
func (w Worker) Spawn(path, url string) (*Process, error) {
	args := make([]string, 0, len(w.Args)+2)
	args = append(args, w.Args...)
	args = append(args, "--", url)

	cmd := exec.Command(path, args...)
	if len(w.Env) > 0 {
		cmd.Env = append(os.Environ(), w.Env...)
	}

	p := &Process{
		cmd:  cmd,
		done: make(chan error, 1),
	}
	cmd.Stdout = &p.stdout
	cmd.Stderr = &p.stderr
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	p.started = time.Now()

	go func() { p.done <- cmd.Wait() }()
	return p, nil
}

// Process is one running worker. Await must be called exactly once.
type Process struct {
	cmd     *exec.Cmd
	stdout  bytes.Buffer
	stderr  bytes.Buffer
	done    chan error
	started time.Time
}

// PID returns the worker's process ID.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Outcome is how a worker run ended.
type Outcome struct {
	// TimedOut is set when ctx ended first; the worker was killed and
	// Stdout/Stderr are empty.
	TimedOut bool

	// Cause is ctx.Err() for timed-out runs.
	Cause error

	// ExitCode is the process exit status (-1 if killed by a signal).
	ExitCode int

	Stdout  []byte
	Stderr  []byte
	Elapsed time.Duration
}

// Await waits for the worker to exit or ctx to end, whichever comes first.
// On ctx expiry the worker's process group is killed and reaped before
// Await returns, so no worker survives a timed-out call.
func (p *Process) Await(ctx context.Context) Outcome {
	select {
	case <-p.done:
		out := Outcome{
			ExitCode: -1,
			Stdout:   p.stdout.Bytes(),
			Stderr:   p.stderr.Bytes(),
			Elapsed:  time.Since(p.started),
		}
		if ps := p.cmd.ProcessState; ps != nil {
			out.ExitCode = ps.ExitCode()
		}
		return out

	case <-ctx.Done():
		killProcessGroup(p.cmd)
		<-p.done
		return Outcome{
			TimedOut: true,
			Cause:    ctx.Err(),
			ExitCode: -1,
			Elapsed:  time.Since(p.started),
		}
	}
}
