package runner

import (
	"context"
	"strings"
)

// MockCommand describes one canned invocation for the MockExecutor. Pattern
// is matched as a substring of the space-joined argv.
type MockCommand struct {
	Pattern  string
	Stdout   string
	Stderr   string
	ExitCode int
}

// MockCall records one invocation seen by the MockExecutor.
type MockCall struct {
	Argv     []string
	Override string
}

// MockExecutor replays canned results instead of spawning processes. Unmatched
// invocations behave like a missing binary.
type MockExecutor struct {
	Commands []MockCommand
	Calls    []MockCall
}

func NewMockExecutor(commands []MockCommand) *MockExecutor {
	return &MockExecutor{Commands: commands}
}

func (m *MockExecutor) Run(ctx context.Context, argv []string, override string) Result {
	m.Calls = append(m.Calls, MockCall{Argv: append([]string(nil), argv...), Override: override})

	joined := strings.Join(argv, " ")
	for _, c := range m.Commands {
		if strings.Contains(joined, c.Pattern) {
			return Result{Stdout: c.Stdout, Stderr: c.Stderr, ExitCode: c.ExitCode}
		}
	}

	name := "unknown"
	if len(argv) > 0 {
		name = argv[0]
	}
	return Result{Stderr: name + ": command not found", ExitCode: ExitNotFound}
}
