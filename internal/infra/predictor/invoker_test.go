package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/brew-advisor/internal/domain/recommendation"
	"github.com/yanqian/brew-advisor/internal/domain/weather"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predict.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func newInvoker(t *testing.T, script string, timeout time.Duration) *Invoker {
	t.Helper()
	inv, err := NewInvoker(Config{
		Command:   []string{script},
		Timeout:   timeout,
		WaitDelay: 100 * time.Millisecond,
	}, newTestLogger())
	require.NoError(t, err)
	return inv
}

func sampleInput() recommendation.PredictionInput {
	return recommendation.PredictionInput{
		Weather:     weather.Rainy,
		Mood:        weather.Relaxed,
		Temperature: 18.5,
		Humidity:    82,
	}
}

func requireKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	require.Error(t, err)
	var predErr *Error
	require.True(t, errors.As(err, &predErr), "expected *predictor.Error, got %T", err)
	require.Equal(t, kind, predErr.Kind)
	require.Equal(t, kind, KindOf(err))
	return predErr
}

func TestPredictReturnsPrediction(t *testing.T) {
	script := writeScript(t, `echo '{"prediction": "Masala Chai"}'`)

	got, err := newInvoker(t, script, 5*time.Second).Predict(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Equal(t, "Masala Chai", got)
}

func TestPredictPassesRequestAsFinalArgument(t *testing.T) {
	captured := filepath.Join(t.TempDir(), "arg.json")
	script := writeScript(t, `printf '%s' "$2" > "`+captured+`"
echo "{\"prediction\": \"$1\"}"`)

	inv, err := NewInvoker(Config{
		Command: []string{script, "Lassi"},
		Timeout: 5 * time.Second,
	}, newTestLogger())
	require.NoError(t, err)

	got, err := inv.Predict(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Equal(t, "Lassi", got)

	raw, err := os.ReadFile(captured)
	require.NoError(t, err)
	var req map[string]any
	require.NoError(t, json.Unmarshal(raw, &req))
	require.Equal(t, "Rainy", req["weather"])
	require.Equal(t, "Relaxed", req["mood"])
	require.Equal(t, 18.5, req["temperature"])
	require.Equal(t, 82.0, req["humidity"])
}

func TestPredictNonZeroExitWithErrorField(t *testing.T) {
	script := writeScript(t, `echo '{"error": "unknown mood"}'
exit 1`)

	_, err := newInvoker(t, script, 5*time.Second).Predict(context.Background(), sampleInput())
	predErr := requireKind(t, err, KindRejection)
	require.Equal(t, 1, predErr.ExitCode)
	require.Contains(t, err.Error(), "unknown mood")
}

func TestPredictNonZeroExitCarriesStderr(t *testing.T) {
	script := writeScript(t, `echo 'model file missing' >&2
exit 2`)

	_, err := newInvoker(t, script, 5*time.Second).Predict(context.Background(), sampleInput())
	predErr := requireKind(t, err, KindRejection)
	require.Equal(t, 2, predErr.ExitCode)
	require.Equal(t, "model file missing", predErr.Stderr)
	require.Contains(t, err.Error(), "code 2")
}

func TestPredictErrorFieldWithZeroExit(t *testing.T) {
	script := writeScript(t, `echo '{"error": "no rule matched"}'`)

	_, err := newInvoker(t, script, 5*time.Second).Predict(context.Background(), sampleInput())
	predErr := requireKind(t, err, KindRejection)
	require.Zero(t, predErr.ExitCode)
	require.Contains(t, err.Error(), "no rule matched")
}

func TestPredictParseFailures(t *testing.T) {
	cases := map[string]string{
		"malformed":          `echo 'Masala Chai'`,
		"empty":              `exit 0`,
		"missing prediction": `echo '{"beverage": "Masala Chai"}'`,
		"wrong type":         `echo '{"prediction": 42}'`,
		"blank prediction":   `echo '{"prediction": ""}'`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			script := writeScript(t, body)
			_, err := newInvoker(t, script, 5*time.Second).Predict(context.Background(), sampleInput())
			requireKind(t, err, KindParseFailure)
		})
	}
}

func TestPredictTimeoutKillsProcess(t *testing.T) {
	script := writeScript(t, `exec sleep 10`)

	start := time.Now()
	_, err := newInvoker(t, script, 200*time.Millisecond).Predict(context.Background(), sampleInput())
	requireKind(t, err, KindTimeout)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestPredictDiscardsOutputAfterTimeout(t *testing.T) {
	script := writeScript(t, `sleep 1
echo '{"prediction": "Too Late"}'`)

	start := time.Now()
	got, err := newInvoker(t, script, 150*time.Millisecond).Predict(context.Background(), sampleInput())
	requireKind(t, err, KindTimeout)
	require.Empty(t, got)
	require.Less(t, time.Since(start), time.Second)
}

func TestPredictTimeoutKillsSpawnedChildren(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("process state is read from /proc")
	}
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	script := writeScript(t, `sleep 30 &
echo $! > "`+pidFile+`"
wait`)

	_, err := newInvoker(t, script, 300*time.Millisecond).Predict(context.Background(), sampleInput())
	requireKind(t, err, KindTimeout)

	raw, err := os.ReadFile(pidFile)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		stat, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
		if err != nil {
			return true
		}
		// Field 3 is the state; a zombie has already been killed.
		fields := strings.Fields(string(stat[bytes.LastIndexByte(stat, ')')+1:]))
		return len(fields) > 0 && fields[0] == "Z"
	}, 2*time.Second, 20*time.Millisecond, "child process %d outlived the timeout", pid)
}

func TestPredictCallerCancellation(t *testing.T) {
	script := writeScript(t, `exec sleep 10`)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err := newInvoker(t, script, 5*time.Second).Predict(ctx, sampleInput())
	requireKind(t, err, KindTimeout)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPredictLaunchFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := newInvoker(t, missing, time.Second).Predict(context.Background(), sampleInput())
	requireKind(t, err, KindLaunchFailure)
}

func TestNewInvokerRequiresCommand(t *testing.T) {
	_, err := NewInvoker(Config{}, newTestLogger())
	require.Error(t, err)

	_, err = NewInvoker(Config{Command: []string{"  "}}, newTestLogger())
	require.Error(t, err)
}

func TestNewInvokerDefaultsTimeout(t *testing.T) {
	inv, err := NewInvoker(Config{Command: []string{"predict"}}, nil)
	require.NoError(t, err)
	require.Equal(t, 15*time.Second, inv.cfg.Timeout)
}

func TestKindOfForeignError(t *testing.T) {
	require.Equal(t, Kind(""), KindOf(errors.New("boom")))
	require.Equal(t, Kind(""), KindOf(nil))
}
