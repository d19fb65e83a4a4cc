package runner

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/open-edge-platform/host-probe/internal/utils/logger"
)

// Sentinel exit codes, following the shell convention: 127 for a binary that
// cannot be found or started, 124 for a timed-out invocation.
const (
	ExitNotFound = 127
	ExitTimeout  = 124
)

// Result holds the decoded output of a single process invocation. ExitCode is
// never negative; failures to spawn are mapped onto the sentinel codes so
// callers can treat every invocation uniformly.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout and stderr joined, trimmed of surrounding
// whitespace. Linkers write version banners to either stream depending on the
// libc family, so classification always looks at both.
func (r Result) Combined() string {
	return strings.TrimSpace(r.Stdout + "\n" + r.Stderr)
}

// TimedOut reports whether the invocation was cut short by its deadline.
func (r Result) TimedOut() bool {
	return r.ExitCode == ExitTimeout
}

// Executor runs an argv and captures its output. The override, when
// non-empty, is the executable actually spawned while argv[0] is kept as the
// process argv[0] (musl's ldd is a shell wrapper that dispatches on argv[0]).
type Executor interface {
	Run(ctx context.Context, argv []string, override string) Result
}

// Default is the process-wide executor. Tests swap it for a MockExecutor.
var Default Executor = &execExecutor{}

// Run executes argv using the default executor.
func Run(ctx context.Context, argv ...string) Result {
	return Default.Run(ctx, argv, "")
}

// RunWith executes argv using override as the spawned executable.
func RunWith(ctx context.Context, override string, argv ...string) Result {
	return Default.Run(ctx, argv, override)
}

type execExecutor struct{}

func (e *execExecutor) Run(ctx context.Context, argv []string, override string) Result {
	log := logger.Logger()

	if len(argv) == 0 {
		return Result{Stderr: "empty argv", ExitCode: ExitNotFound}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if override != "" {
		cmd.Path = override
		cmd.Err = nil
		log.Debugf("Exec: [%s] via %s", strings.Join(argv, " "), override)
	} else {
		log.Debugf("Exec: [%s]", strings.Join(argv, " "))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	switch {
	case ctx.Err() != nil:
		res.ExitCode = ExitTimeout
		res.Stderr = "timeout"
	case err == nil:
		res.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			res.ExitCode = ExitNotFound
			res.Stderr = argv[0] + ": command not found"
		} else {
			// Start failures (permission, not-executable) sit in the same
			// bucket as missing binaries for callers.
			res.ExitCode = ExitNotFound
			res.Stderr = err.Error()
		}
	}

	if res.ExitCode != 0 {
		log.Debugf("Exec [%s] exited %d", argv[0], res.ExitCode)
	}
	return res
}
