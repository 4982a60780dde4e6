package provision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/relforgehq/relforge/internal/registry"
	"github.com/relforgehq/relforge/internal/runtime"
)

// Scripted environment: records executed commands and fails on demand.
type fakeEnv struct {
	commands []string
	failAt   int // 1-based index of the command that exits non-zero; 0 disables.
	execErr  error
}

func (f *fakeEnv) Exec(ctx context.Context, command string, env []string, workdir string) (*runtime.ExecResult, error) {
	if f.execErr != nil {
		return nil, f.execErr
	}
	f.commands = append(f.commands, command)
	if f.failAt == len(f.commands) {
		return &runtime.ExecResult{ExitCode: 100, Stderr: "E: unable to locate package"}, nil
	}
	return &runtime.ExecResult{}, nil
}

func (f *fakeEnv) Pull(ctx context.Context, src, dest string) error { return nil }
func (f *fakeEnv) Workdir() string                                  { return "/src" }
func (f *fakeEnv) Close(ctx context.Context) error                  { return nil }

func TestRun(t *testing.T) {
	env := &fakeEnv{}
	recipe := []string{"apt-get update", "apt-get install -y libpq-dev"}

	if err := Run(context.Background(), env, registry.ClassLinux, recipe); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(env.commands) != 2 || env.commands[0] != recipe[0] || env.commands[1] != recipe[1] {
		t.Fatalf("executed commands = %v, want %v in order", env.commands, recipe)
	}
}

func TestRunEmptyRecipe(t *testing.T) {
	env := &fakeEnv{}
	if err := Run(context.Background(), env, registry.ClassMacOS, nil); err != nil {
		t.Fatalf("empty recipe failed: %v", err)
	}
	if len(env.commands) != 0 {
		t.Fatalf("empty recipe executed commands: %v", env.commands)
	}
}

func TestRunCommandFails(t *testing.T) {
	env := &fakeEnv{failAt: 2}
	recipe := []string{"first", "second", "third"}

	err := Run(context.Background(), env, registry.ClassLinux, recipe)
	if !errors.Is(err, ErrProvision) {
		t.Fatalf("err = %v, want ErrProvision", err)
	}
	if !strings.Contains(err.Error(), "linux") {
		t.Errorf("error does not name the class: %v", err)
	}
	if !strings.Contains(err.Error(), "unable to locate package") {
		t.Errorf("error does not carry installer stderr: %v", err)
	}

	// The failing command stops the recipe.
	if len(env.commands) != 2 {
		t.Fatalf("executed %d commands after failure, want 2", len(env.commands))
	}
}

func TestRunExecError(t *testing.T) {
	env := &fakeEnv{execErr: errors.New("task not found")}

	err := Run(context.Background(), env, registry.ClassWindows, []string{"choco install -y protoc"})
	if !errors.Is(err, ErrProvision) {
		t.Fatalf("err = %v, want ErrProvision", err)
	}
}

func TestTail(t *testing.T) {
	long := strings.Repeat("a", 2000) + "END"
	got := tail(long)
	if len(got) > 1030 {
		t.Fatalf("tail too long: %d", len(got))
	}
	if !strings.HasSuffix(got, "END") {
		t.Fatal("tail dropped the most recent output")
	}
}
