package topology

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aryankumar/toposcale/internal/util"
	"golang.org/x/time/rate"
)

// Searcher sizes a topology by running a combinatorial search.
// args are the positional numeric arguments of the search.
type Searcher interface {
	Search(ctx context.Context, args []string) (int64, error)
}

// SearcherFunc adapts a function to the Searcher interface
type SearcherFunc func(ctx context.Context, args []string) (int64, error)

// Search calls f
func (f SearcherFunc) Search(ctx context.Context, args []string) (int64, error) {
	return f(ctx, args)
}

// Output positions of the size token in the search scripts' reports
const (
	HyperXLine    = 1
	DragonflyLine = 2
	SizeColumn    = 5
)

// ExecSearcher runs a search script as a subprocess:
//
//	<Script> <Binary> <args...>
//
// and extracts the integer at (Line, Column) of its whitespace-tokenized stdout.
// A non-zero exit or any deviation from the expected output is an error.
type ExecSearcher struct {
	Script string
	Binary string
	Line   int
	Column int

	// Limiter, if set, bounds how fast subprocesses are spawned
	Limiter *rate.Limiter
}

// NewExecSearcher creates a searcher; spawnRate <= 0 means unlimited
func NewExecSearcher(script, binary string, line, column int, spawnRate float64) *ExecSearcher {
	s := &ExecSearcher{
		Script: script,
		Binary: binary,
		Line:   line,
		Column: column,
	}
	if spawnRate > 0 {
		s.Limiter = rate.NewLimiter(rate.Limit(spawnRate), 1)
	}
	return s
}

// Search implements Searcher
func (s *ExecSearcher) Search(ctx context.Context, args []string) (int64, error) {
	procErr := func(err error) error {
		return &util.ExternalProcedureError{
			Procedure: filepath.Base(s.Script),
			Args:      args,
			Err:       err,
		}
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return 0, procErr(fmt.Errorf("waiting to spawn: %w", err))
		}
	}

	cmdArgs := append([]string{s.Binary}, args...)
	cmd := exec.CommandContext(ctx, s.Script, cmdArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, procErr(fmt.Errorf("%w: %v", ctxErr, err))
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return 0, procErr(fmt.Errorf("%w: %s", err, msg))
		}
		return 0, procErr(err)
	}

	size, err := ParseField(stdout.Bytes(), s.Line, s.Column)
	if err != nil {
		return 0, procErr(err)
	}
	return size, nil
}

// ParseField extracts the non-negative integer token at column col of line
// line (both zero-based) of newline-delimited, whitespace-tokenized text.
func ParseField(out []byte, line, col int) (int64, error) {
	lines := strings.Split(string(out), "\n")
	if line < 0 || line >= len(lines) {
		return 0, fmt.Errorf("output has %d line(s), expected at least %d", len(lines), line+1)
	}

	fields := strings.Fields(lines[line])
	if col < 0 || col >= len(fields) {
		return 0, fmt.Errorf("output line %d has %d field(s), expected at least %d", line, len(fields), col+1)
	}

	value, err := strconv.ParseInt(fields[col], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("output line %d field %d: %w", line, col, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("output line %d field %d: negative size %d", line, col, value)
	}
	return value, nil
}
