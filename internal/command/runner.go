// Package command executes the external engines and reports typed outcomes.
package command

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"stillcast/internal/domain/consts"
	"stillcast/internal/utils/logging"
)

// Outcome describes one finished subprocess invocation. Orchestration logic
// escalates on these rather than sniffing output strings.
type Outcome struct {
	ExitCode   int
	Stdout     string
	StderrTail string
}

// Opts controls how an invocation's output is handled.
type Opts struct {
	// Quiet suppresses mirroring of engine output to the terminal. Stdout is
	// still captured in the Outcome (used for metadata probes).
	Quiet bool
}

// Runner runs one subprocess to completion.
type Runner interface {
	Run(ctx context.Context, name string, args []string, opts Opts) (Outcome, error)
}

// ExecRunner is the real Runner backed by os/exec.
type ExecRunner struct{}

// NewRunner returns the default subprocess runner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args, blocking until completion. The Outcome is
// populated even on failure; err is non-nil for start failures and nonzero
// exits alike.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, opts Opts) (Outcome, error) {
	if _, err := exec.LookPath(name); err != nil {
		return Outcome{ExitCode: -1}, fmt.Errorf("%s not found in PATH: %w", name, err)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	logging.D(1, "Running: %s", cmd.String())

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Outcome{ExitCode: -1}, fmt.Errorf("stdout pipe error: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Outcome{ExitCode: -1}, fmt.Errorf("stderr pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return Outcome{ExitCode: -1}, fmt.Errorf("failed to start %s: %w", name, err)
	}

	var (
		wg     sync.WaitGroup
		outBuf bytes.Buffer
		tail   = newLineTail(consts.StderrTailLines)
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		r.drain(stdout, &outBuf, os.Stdout, opts.Quiet)
	}()
	go func() {
		defer wg.Done()
		r.drain(stderr, tail, os.Stderr, opts.Quiet)
	}()

	wg.Wait()
	waitErr := cmd.Wait()

	outcome := Outcome{
		ExitCode:   cmd.ProcessState.ExitCode(),
		Stdout:     outBuf.String(),
		StderrTail: tail.String(),
	}

	if waitErr != nil {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return outcome, fmt.Errorf("%s exited with code %d", name, outcome.ExitCode)
		}
		return outcome, fmt.Errorf("%s failed: %w", name, waitErr)
	}
	return outcome, nil
}

// drain copies src into capture a line at a time, optionally mirroring to
// the terminal. Reads through bufio.Reader rather than a scanner: the
// engine's JSON output is a single line with no length bound, and src must
// be consumed to EOF or the child blocks writing and never exits.
func (r *ExecRunner) drain(src io.Reader, capture io.Writer, mirror io.Writer, quiet bool) {
	reader := bufio.NewReaderSize(src, 64*1024)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			io.WriteString(capture, line)
			if !quiet {
				io.WriteString(mirror, line)
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				io.Copy(io.Discard, src)
			}
			return
		}
	}
}

// lineTail keeps the last n written lines.
type lineTail struct {
	lines []string
	n     int
}

func newLineTail(n int) *lineTail {
	return &lineTail{n: n}
}

func (t *lineTail) Write(p []byte) (int, error) {
	t.lines = append(t.lines, strings.TrimRight(string(p), "\n"))
	if len(t.lines) > t.n {
		t.lines = t.lines[len(t.lines)-t.n:]
	}
	return len(p), nil
}

func (t *lineTail) String() string {
	return strings.Join(t.lines, "\n")
}
