package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stillcast/internal/command"
)

// probeRunner scripts per-call results and records invocations.
type probeRunner struct {
	calls    [][]string
	failures int // first N calls exit nonzero
	payload  string
}

func (f *probeRunner) Run(_ context.Context, name string, args []string, _ command.Opts) (command.Outcome, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if len(f.calls) <= f.failures {
		return command.Outcome{ExitCode: 1, StderrTail: "Sign in to confirm"}, errors.New("yt-dlp exited with code 1")
	}
	return command.Outcome{ExitCode: 0, Stdout: f.payload}, nil
}

func hasFlagPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

// TestProbeFirstAttemptUsesMobileClients tests that the initial probe runs
// with client emulation and no cookies, and its output is parsed on success.
func TestProbeFirstAttemptUsesMobileClients(t *testing.T) {
	t.Parallel()

	runner := &probeRunner{payload: `{"title": "Clip", "duration": 12}`}
	p := NewProber(runner)

	meta, err := p.Probe(context.Background(), "https://example.com/v", "/tmp/cookies.txt")
	require.NoError(t, err)
	assert.Equal(t, "Clip", meta.Title)

	require.Len(t, runner.calls, 1)
	first := runner.calls[0]
	assert.Contains(t, first, "--extractor-args")
	assert.Contains(t, first, "-J")
	assert.Contains(t, first, "--skip-download")
	assert.NotContains(t, first, "--cookies")
}

// TestProbeRetriesWithCookies tests the escalation: the retry swaps client
// emulation for the cookie file.
func TestProbeRetriesWithCookies(t *testing.T) {
	t.Parallel()

	runner := &probeRunner{failures: 1, payload: `{"title": "Clip", "duration": 12}`}
	p := NewProber(runner)

	meta, err := p.Probe(context.Background(), "https://example.com/v", "/tmp/cookies.txt")
	require.NoError(t, err)
	assert.Equal(t, "Clip", meta.Title)

	require.Len(t, runner.calls, 2)
	retry := runner.calls[1]
	assert.True(t, hasFlagPair(retry, "--cookies", "/tmp/cookies.txt"))
	assert.NotContains(t, retry, "--extractor-args")
}

// TestProbeNoCookiesSingleAttempt tests that without a cookie file the probe
// fails terminally after one attempt.
func TestProbeNoCookiesSingleAttempt(t *testing.T) {
	t.Parallel()

	runner := &probeRunner{failures: 1}
	p := NewProber(runner)

	_, err := p.Probe(context.Background(), "https://example.com/v", "")
	require.ErrorIs(t, err, ErrMetadataProbe)
	assert.Len(t, runner.calls, 1)
}

// TestProbeBothAttemptsFail tests the terminal error after the cookie retry
// also fails, carrying the engine's stderr tail.
func TestProbeBothAttemptsFail(t *testing.T) {
	t.Parallel()

	runner := &probeRunner{failures: 2}
	p := NewProber(runner)

	_, err := p.Probe(context.Background(), "https://example.com/v", "/tmp/cookies.txt")
	require.ErrorIs(t, err, ErrMetadataProbe)
	assert.Contains(t, err.Error(), "Sign in to confirm")
	assert.Len(t, runner.calls, 2)
}
