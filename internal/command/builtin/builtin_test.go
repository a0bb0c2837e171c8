package builtin

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/keshon/snapvcs/internal/command"
	"github.com/keshon/snapvcs/internal/config"
	"github.com/keshon/snapvcs/internal/errs"
	"github.com/keshon/snapvcs/internal/fs"
	"github.com/keshon/snapvcs/internal/logger"
	"github.com/keshon/snapvcs/internal/registry"
)

type harness struct {
	t   *testing.T
	env *command.Env
	out *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	mfs := fs.NewMemoryFS()
	out := &bytes.Buffer{}
	l := logger.Discard()
	return &harness{
		t:   t,
		out: out,
		env: &command.Env{
			Settings: config.DefaultSettings(),
			Registry: registry.New("repositories.yaml", &registry.Options{FS: mfs, Logger: l}),
			Logger:   l,
			Root:     "data",
			FS:       mfs,
			Out:      out,
		},
	}
}

// run executes one command as a separate invocation would, feeding input
// as its standard input.
func (h *harness) run(input string, args ...string) (string, error) {
	h.out.Reset()
	h.env.In = strings.NewReader(input)
	err := command.Execute(args, h.env)
	return h.out.String(), err
}

func (h *harness) must(input string, args ...string) string {
	h.t.Helper()
	out, err := h.run(input, args...)
	if err != nil {
		h.t.Fatalf("%v failed: %v", args, err)
	}
	return out
}

func TestSessionAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	if out := h.must("", "init"); !strings.Contains(out, "Initialized empty repository") {
		t.Errorf("init output %q", out)
	}
	if _, err := h.run("", "init"); err == nil || !strings.Contains(err.Error(), "already initialized") {
		t.Errorf("second init: %v", err)
	}

	if out := h.must("hello\n", "add", "a.txt"); out != "Added a.txt (6 bytes, 1 lines)\n" {
		t.Errorf("add output %q", out)
	}
	if _, err := h.run("x", "add", "a.txt"); !errors.Is(err, errs.ErrFileExists) {
		t.Errorf("expected ErrFileExists, got %v", err)
	}
	if out := h.must("", "commit", "-m", "first"); !strings.HasPrefix(out, "Committed #1 first (1 files,") {
		t.Errorf("commit output %q", out)
	}
	h.must("world", "add", "b.txt")
	h.must("", "commit", "-m", "second")

	if out := h.must("", "log", "--oneline"); out != "2 second (current)\n1 first\nTotal commits: 2\n" {
		t.Errorf("log output %q", out)
	}
	if out := h.must("", "log", "-n", "1"); !strings.Contains(out, "#2") || strings.Contains(out, "#1") {
		t.Errorf("log -n 1 output %q", out)
	}

	h.must("", "revert", "1")
	if out := h.must("", "ls"); !strings.Contains(out, "a.txt") || strings.Contains(out, "b.txt") {
		t.Errorf("ls after revert %q", out)
	}
	if out := h.must("", "status"); !strings.Contains(out, "Current:  #1") {
		t.Errorf("status after revert %q", out)
	}
	if out := h.must("", "undo"); out != "Back at #2 second\n" {
		t.Errorf("undo output %q", out)
	}
	if _, err := h.run("", "undo"); !errors.Is(err, errs.ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}

	if out := h.must("", "cat", "-c", "1", "a.txt"); out != "hello\n" {
		t.Errorf("cat -c output %q", out)
	}
	h.must(" more", "edit", "--append", "a.txt")
	if out := h.must("", "cat", "a.txt"); out != "hello\n more" {
		t.Errorf("cat after edit %q", out)
	}
	if out := h.must("", "status", "-s"); out != "M a.txt\n" {
		t.Errorf("status -s output %q", out)
	}
	if _, err := h.run("", "edit", "missing.txt"); !errors.Is(err, errs.ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}

	out := h.must("", "compare", "1", "2")
	if !strings.Contains(out, "only-in-b") || !strings.Contains(out, "1 of 2 files differ") {
		t.Errorf("compare output %q", out)
	}
	if out := h.must("", "verify"); !strings.Contains(out, "All 2 commit records OK") {
		t.Errorf("verify output %q", out)
	}
	if _, err := h.run("", "revert", "9"); !errors.Is(err, errs.ErrCommitNotFound) {
		t.Errorf("expected ErrCommitNotFound, got %v", err)
	}
}

func TestCommandsNeedInitializedRepository(t *testing.T) {
	h := newHarness(t)
	for _, args := range [][]string{{"ls"}, {"commit", "-m", "x"}, {"add", "a"}, {"log"}} {
		if _, err := h.run("", args...); !errors.Is(err, errs.ErrNotInitialized) {
			t.Errorf("%v: expected ErrNotInitialized, got %v", args, err)
		}
	}
}

func TestEmptyCommitReported(t *testing.T) {
	h := newHarness(t)
	h.must("", "init")
	if _, err := h.run("", "commit", "-m", "nothing"); !errors.Is(err, errs.ErrEmptyCommit) {
		t.Errorf("expected ErrEmptyCommit, got %v", err)
	}
	if _, err := h.run("", "commit"); err == nil {
		t.Error("expected missing message error")
	}
}

func TestRepoCommands(t *testing.T) {
	h := newHarness(t)

	if out := h.must("", "repo", "add", "notes"); !strings.Contains(out, "Registered notes") {
		t.Errorf("repo add output %q", out)
	}
	h.must("", "repo", "add", "work", "/srv/work")
	out := h.must("", "repo", "list")
	if !strings.Contains(out, "* notes") || !strings.Contains(out, "  work\t/srv/work") {
		t.Errorf("repo list output %q", out)
	}
	if _, err := h.run("", "repo", "select", "ghost"); !errors.Is(err, registry.ErrRepoUnknown) {
		t.Errorf("expected ErrRepoUnknown, got %v", err)
	}
	h.must("", "repo", "select", "work")
	if root, ok := h.env.Registry.SelectedRoot(); !ok || root != "/srv/work" {
		t.Errorf("unexpected selection %q", root)
	}
	h.must("", "repo", "remove", "work")
	if _, ok := h.env.Registry.Selected(); ok {
		t.Error("selection should be cleared")
	}
}

func TestHelp(t *testing.T) {
	h := newHarness(t)

	out := h.must("", "help")
	for _, name := range []string{"init", "add", "edit", "commit", "log", "revert", "undo", "status", "compare", "verify", "repo"} {
		if !strings.Contains(out, name) {
			t.Errorf("help list misses %q", name)
		}
	}
	if out := h.must("", "help", "repo", "add"); !strings.Contains(out, "repo add <name> [root]") {
		t.Errorf("subcommand help %q", out)
	}
	if out := h.must("", "help", "nope"); !strings.Contains(out, "Unknown command") {
		t.Errorf("unknown help %q", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	if _, err := h.run("", "frobnicate"); err == nil {
		t.Error("expected error")
	}
}
