package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/yanqian/brew-advisor/internal/domain/recommendation"
	"github.com/yanqian/brew-advisor/pkg/metrics"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultWaitDelay = 2 * time.Second
	stderrLimit      = 4 << 10
)

// outputSchema describes the single JSON object the predictor prints on stdout.
const outputSchema = `{
	"type": "object",
	"properties": {
		"prediction": {"type": "string", "minLength": 1},
		"error": {"type": "string"}
	},
	"anyOf": [
		{"required": ["prediction"]},
		{"required": ["error"]}
	]
}`

// Config controls how the predictor process is launched.
type Config struct {
	// Command is the executable followed by its fixed arguments. The JSON
	// request is appended as the final argument.
	Command []string
	Timeout time.Duration
	// WaitDelay bounds how long to wait for output pipes after the process exits
	// or is killed.
	WaitDelay time.Duration
}

// Invoker runs the external predictor once per request.
type Invoker struct {
	cfg    Config
	schema *gojsonschema.Schema
	logger *slog.Logger
}

type output struct {
	Prediction string `json:"prediction"`
	Error      string `json:"error"`
}

type outcome struct {
	prediction string
	err        error
}

// NewInvoker validates cfg and compiles the output schema.
func NewInvoker(cfg Config, logger *slog.Logger) (*Invoker, error) {
	if len(cfg.Command) == 0 || strings.TrimSpace(cfg.Command[0]) == "" {
		return nil, errors.New("predictor command is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.WaitDelay <= 0 {
		cfg.WaitDelay = defaultWaitDelay
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(outputSchema))
	if err != nil {
		return nil, fmt.Errorf("compile predictor output schema: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Invoker{
		cfg:    cfg,
		schema: schema,
		logger: logger.With("component", "predictor.invoker"),
	}, nil
}

// Predict launches the predictor with in and returns its beverage label.
// Errors are always *Error.
func (i *Invoker) Predict(ctx context.Context, in recommendation.PredictionInput) (string, error) {
	start := time.Now()
	prediction, err := i.invoke(ctx, in)
	elapsed := time.Since(start)

	label := "success"
	if err != nil {
		label = string(KindOf(err))
	}
	metrics.PredictorCalls.WithLabelValues(label).Inc()
	metrics.PredictorDuration.Observe(elapsed.Seconds())

	if err != nil {
		i.logger.Warn("prediction failed", "kind", label, "latency_ms", elapsed.Milliseconds(), "error", err)
		return "", err
	}
	i.logger.Info("prediction produced", "beverage", prediction, "latency_ms", elapsed.Milliseconds())
	return prediction, nil
}

func (i *Invoker) invoke(ctx context.Context, in recommendation.PredictionInput) (string, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return "", &Error{Kind: KindLaunchFailure, Err: fmt.Errorf("encode request: %w", err)}
	}

	runCtx, cancel := context.WithTimeout(ctx, i.cfg.Timeout)
	defer cancel()

	args := make([]string, 0, len(i.cfg.Command))
	args = append(args, i.cfg.Command[1:]...)
	args = append(args, string(payload))

	cmd := exec.CommandContext(runCtx, i.cfg.Command[0], args...)
	// The predictor runs in its own process group so a timeout also reaps
	// anything it spawned.
	isolateProcessGroup(cmd)
	cmd.Cancel = func() error {
		err := killProcessGroup(cmd)
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return err
	}
	cmd.WaitDelay = i.cfg.WaitDelay

	var stdout bytes.Buffer
	stderr := &limitedBuffer{limit: stderrLimit}
	cmd.Stdout = &stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		if runCtx.Err() != nil {
			return "", i.timeoutError(ctx)
		}
		return "", &Error{Kind: KindLaunchFailure, Err: err}
	}

	var once sync.Once
	result := make(chan outcome, 1)
	settle := func(o outcome) {
		once.Do(func() { result <- o })
	}

	go func() {
		waitErr := cmd.Wait()
		if runCtx.Err() != nil {
			settle(outcome{err: i.timeoutError(ctx)})
			return
		}
		prediction, err := i.interpret(waitErr, stdout.Bytes(), stderr.String())
		settle(outcome{prediction: prediction, err: err})
	}()

	select {
	case o := <-result:
		return o.prediction, o.err
	case <-runCtx.Done():
		settle(outcome{err: i.timeoutError(ctx)})
	}
	o := <-result
	return o.prediction, o.err
}

func (i *Invoker) timeoutError(parent context.Context) error {
	if err := parent.Err(); err != nil {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindTimeout, Err: fmt.Errorf("no result within %s: %w", i.cfg.Timeout, context.DeadlineExceeded)}
}

func (i *Invoker) interpret(waitErr error, stdout []byte, stderr string) (string, error) {
	stderr = strings.TrimSpace(stderr)
	if waitErr != nil && !errors.Is(waitErr, exec.ErrWaitDelay) {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			code = exitErr.ExitCode()
		}
		if msg := rejectionMessage(stdout); msg != "" {
			return "", &Error{Kind: KindRejection, ExitCode: code, Stderr: stderr, Err: errors.New(msg)}
		}
		detail := stderr
		if detail == "" {
			detail = "no stderr"
		}
		return "", &Error{Kind: KindRejection, ExitCode: code, Stderr: stderr, Err: fmt.Errorf("exited with code %d: %s", code, detail)}
	}

	var doc any
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &doc); err != nil {
		return "", &Error{Kind: KindParseFailure, Stderr: stderr, Err: fmt.Errorf("decode output: %w", err)}
	}
	res, err := i.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return "", &Error{Kind: KindParseFailure, Stderr: stderr, Err: fmt.Errorf("validate output: %w", err)}
	}

	var out output
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &out); err != nil {
		return "", &Error{Kind: KindParseFailure, Stderr: stderr, Err: fmt.Errorf("decode output: %w", err)}
	}
	if !res.Valid() {
		errs := make([]string, len(res.Errors()))
		for idx, desc := range res.Errors() {
			errs[idx] = desc.String()
		}
		return "", &Error{Kind: KindParseFailure, Stderr: stderr, Err: fmt.Errorf("unexpected output: %s", strings.Join(errs, "; "))}
	}
	if out.Error != "" {
		return "", &Error{Kind: KindRejection, Stderr: stderr, Err: errors.New(out.Error)}
	}
	if out.Prediction == "" {
		return "", &Error{Kind: KindParseFailure, Stderr: stderr, Err: errors.New("output has no prediction")}
	}
	return out.Prediction, nil
}

// rejectionMessage extracts the "error" field a failing predictor may print.
func rejectionMessage(stdout []byte) string {
	var out output
	if err := json.Unmarshal(bytes.TrimSpace(stdout), &out); err != nil {
		return ""
	}
	return out.Error
}

// limitedBuffer keeps the first limit bytes written and discards the rest.
type limitedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	return b.buf.String()
}
