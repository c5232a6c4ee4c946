package engine

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/panjf2000/ants/v2"

	"docqa-backend/internal/shared/telemetry"
)

// Invoker is the contract for the external processing engine. It is invoked
// once per job as a single-shot subprocess; no state is held across jobs.
type Invoker interface {
	Ingest(ctx context.Context, filePath string) (Result, error)
	Query(ctx context.Context, queryText, apiKey, indexPath string) (Result, error)
}

// Result holds the buffered output streams of one engine invocation.
type Result struct {
	Stdout []byte
	Stderr []byte
}

// ExitError reports a non-zero engine exit along with its diagnostic output.
type ExitError struct {
	Script string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("engine %s exited with code %d", e.Script, e.Code)
}

// Runner invokes the engine scripts as managed subprocesses. Each invocation
// is bounded by Timeout and is killed when the caller's context is canceled,
// so a client disconnect does not leave an orphaned process running.
type Runner struct {
	Python       string
	IngestScript string
	QueryScript  string
	WorkDir      string
	Timeout      time.Duration

	ingestPool *ants.Pool
}

// NewRunner constructs a Runner. maxConcurrent bounds the number of
// ingestion subprocesses running at once; additional ingest calls block
// until a slot frees up.
func NewRunner(python, ingestScript, queryScript, workDir string, timeout time.Duration, maxConcurrent int) (*Runner, error) {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	pool, err := ants.NewPool(maxConcurrent)
	if err != nil {
		return nil, fmt.Errorf("create ingest pool: %w", err)
	}
	return &Runner{
		Python:       python,
		IngestScript: ingestScript,
		QueryScript:  queryScript,
		WorkDir:      workDir,
		Timeout:      timeout,
		ingestPool:   pool,
	}, nil
}

// Close releases the ingestion pool.
func (r *Runner) Close() {
	if r.ingestPool != nil {
		r.ingestPool.Release()
	}
}

// Ingest runs the ingestion script against the given file path.
func (r *Runner) Ingest(ctx context.Context, filePath string) (Result, error) {
	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)

	err := r.ingestPool.Submit(func() {
		res, runErr := r.run(ctx, "engine.ingest", r.IngestScript, "-u", r.IngestScript, "--filepath", filePath)
		done <- outcome{res: res, err: runErr}
	})
	if err != nil {
		return Result{}, fmt.Errorf("submit ingest job: %w", err)
	}

	select {
	case out := <-done:
		return out.res, out.err
	case <-ctx.Done():
		// run observes the same context and kills the subprocess.
		return Result{}, ctx.Err()
	}
}

// Query runs the query script with the given query text, provider credential,
// and index path.
func (r *Runner) Query(ctx context.Context, queryText, apiKey, indexPath string) (Result, error) {
	return r.run(ctx, "engine.query", r.QueryScript,
		r.QueryScript,
		"--query", queryText,
		"--api_key", apiKey,
		"--index_path", indexPath,
	)
}

func (r *Runner) run(ctx context.Context, label, script string, args ...string) (Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.Python, args...)
	cmd.Dir = r.WorkDir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf("engine %s: stderr pipe: %w", script, err)
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("engine %s: start: %w", script, err)
	}

	// Diagnostic output is streamed for observability and buffered so it can
	// be surfaced to the caller on failure; it is never parsed.
	var stderr bytes.Buffer
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		scanner := bufio.NewScanner(stderrPipe)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			line := scanner.Text()
			stderr.WriteString(line)
			stderr.WriteByte('\n')
			telemetry.Info(label+".stderr", map[string]any{"line": line})
		}
	}()

	<-drained
	waitErr := cmd.Wait()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if waitErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("engine %s: %w", script, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return res, &ExitError{
				Script: script,
				Code:   exitErr.ExitCode(),
				Stderr: stderr.String(),
			}
		}
		return res, fmt.Errorf("engine %s: %w", script, waitErr)
	}
	return res, nil
}
