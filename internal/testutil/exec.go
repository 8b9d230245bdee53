// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
)

const (
	envWantHelper = "GO_WANT_HELPER_PROCESS"
	envExitCode   = "GO_HELPER_EXIT_CODE"
	envStdout     = "GO_HELPER_STDOUT"
	envCopyTree   = "GO_HELPER_COPY_TREE"
	envTouch      = "GO_HELPER_TOUCH"
)

type (
	// Script describes how a faked tool behaves.
	Script struct {
		// ExitCode is the status the fake exits with.
		ExitCode int
		// Stdout is written to standard output.
		Stdout string
		// CopyTree copies this directory into the command's last argument,
		// which is how a fake "git clone" populates its destination.
		CopyTree string
		// Touch lists files, relative to the working directory, created
		// before exiting.
		Touch []string
	}

	// Invocation is one recorded command.
	Invocation struct {
		Name string
		Args []string
		Dir  string
	}

	// CommandRecorder fakes external tools with the TestHelperProcess pattern:
	// every command re-executes the test binary, which must define
	//
	//	func TestHelperProcess(t *testing.T) { testutil.RunHelperProcess() }
	//
	// Scripts are looked up by "name firstArg" first, then by "name".
	// Unscripted commands exit 0.
	CommandRecorder struct {
		mu          sync.Mutex
		Scripts     map[string]Script
		invocations []*exec.Cmd
		names       []Invocation
	}
)

// NewCommandRecorder creates a recorder where every command succeeds.
func NewCommandRecorder() *CommandRecorder {
	return &CommandRecorder{Scripts: make(map[string]Script)}
}

// CommandContext matches runner.ExecCommandFunc.
func (m *CommandRecorder) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	script := m.lookup(name, args)

	cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
	//nolint:gosec // TestHelperProcess is a test-only pattern
	cmd := exec.CommandContext(ctx, os.Args[0], cs...)
	cmd.Env = []string{
		envWantHelper + "=1",
		envExitCode + "=" + strconv.Itoa(script.ExitCode),
		envStdout + "=" + script.Stdout,
		envCopyTree + "=" + script.CopyTree,
		envTouch + "=" + strings.Join(script.Touch, string(os.PathListSeparator)),
	}

	m.mu.Lock()
	m.invocations = append(m.invocations, cmd)
	m.names = append(m.names, Invocation{Name: name, Args: args})
	m.mu.Unlock()
	return cmd
}

func (m *CommandRecorder) lookup(name string, args []string) Script {
	if len(args) > 0 {
		if s, ok := m.Scripts[name+" "+args[0]]; ok {
			return s
		}
	}
	return m.Scripts[name]
}

// Invocations returns the recorded commands, with the working directory the
// caller assigned after construction.
func (m *CommandRecorder) Invocations() []Invocation {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Invocation, len(m.names))
	for i, inv := range m.names {
		inv.Dir = m.invocations[i].Dir
		out[i] = inv
	}
	return out
}

// Lines renders every invocation as "name arg1 arg2".
func (m *CommandRecorder) Lines() []string {
	invs := m.Invocations()
	lines := make([]string, len(invs))
	for i, inv := range invs {
		lines[i] = strings.TrimSpace(inv.Name + " " + strings.Join(inv.Args, " "))
	}
	return lines
}

// AssertLines fails the test unless the recorded command lines equal want.
func (m *CommandRecorder) AssertLines(t testing.TB, want ...string) {
	t.Helper()
	got := m.Lines()
	if len(got) != len(want) {
		t.Fatalf("commands = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("command[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// RunHelperProcess is the body of a test binary's TestHelperProcess. It
// returns immediately unless the process was started by a CommandRecorder.
func RunHelperProcess() {
	if os.Getenv(envWantHelper) != "1" {
		return
	}

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}

	if src := os.Getenv(envCopyTree); src != "" && len(args) > 0 {
		if err := os.CopyFS(args[len(args)-1], os.DirFS(src)); err != nil {
			fmt.Fprintf(os.Stderr, "helper: copy tree: %v\n", err)
			os.Exit(2)
		}
	}
	if touch := os.Getenv(envTouch); touch != "" {
		for _, rel := range filepath.SplitList(touch) {
			if err := touchFile(rel); err != nil {
				fmt.Fprintf(os.Stderr, "helper: touch: %v\n", err)
				os.Exit(2)
			}
		}
	}
	if stdout := os.Getenv(envStdout); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}

	code, _ := strconv.Atoi(os.Getenv(envExitCode))
	os.Exit(code)
}

func touchFile(rel string) error {
	if err := os.MkdirAll(filepath.Dir(rel), 0o755); err != nil {
		return err
	}
	return os.WriteFile(rel, []byte("// "+rel+"\n"), 0o644)
}
