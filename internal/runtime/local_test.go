package runtime

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func localEnv(t *testing.T) Environment {
	t.Helper()
	env, err := NewLocal(t.TempDir()).Environment(context.Background(), "test-job", EnvironmentOptions{})
	if err != nil {
		t.Fatalf("Environment failed: %v", err)
	}
	t.Cleanup(func() { env.Close(context.Background()) })
	return env
}

func TestLocalExec(t *testing.T) {
	env := localEnv(t)

	result, err := env.Exec(context.Background(), "echo hello", nil, "")
	if err != nil {
		t.Fatalf("Exec failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0", result.ExitCode)
	}
	if strings.TrimSpace(result.Stdout) != "hello" {
		t.Fatalf("Stdout = %q, want hello", result.Stdout)
	}
}

func TestLocalExecNonZeroExit(t *testing.T) {
	env := localEnv(t)

	result, err := env.Exec(context.Background(), "echo oops >&2; exit 3", nil, "")
	if err != nil {
		t.Fatalf("non-zero exit reported as error: %v", err)
	}
	if result.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", result.ExitCode)
	}
	if strings.TrimSpace(result.Stderr) != "oops" {
		t.Fatalf("Stderr = %q, want oops", result.Stderr)
	}
}

func TestLocalExecEnvOverride(t *testing.T) {
	env := localEnv(t)

	result, err := env.Exec(context.Background(), "echo $BUILD_FLAVOR", []string{"BUILD_FLAVOR=release"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(result.Stdout) != "release" {
		t.Fatalf("Stdout = %q, want release", result.Stdout)
	}
}

func TestLocalExecWorkdir(t *testing.T) {
	env := localEnv(t)
	other := t.TempDir()

	result, err := env.Exec(context.Background(), "pwd", nil, other)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(result.Stdout); got != other {
		t.Fatalf("pwd = %q, want %q", got, other)
	}
}

func TestLocalPull(t *testing.T) {
	env := localEnv(t)

	src := filepath.Join(t.TempDir(), "binary")
	if err := os.WriteFile(src, []byte("payload"), 0755); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(t.TempDir(), "pulled")

	if err := env.Pull(context.Background(), src, dest); err != nil {
		t.Fatalf("Pull failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("content = %q", data)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Fatalf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestLocalPullMissing(t *testing.T) {
	env := localEnv(t)

	err := env.Pull(context.Background(), filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "out"))
	if err == nil {
		t.Fatal("Pull of missing file succeeded")
	}
}

func TestLocalEnvironmentMissingSource(t *testing.T) {
	_, err := NewLocal(filepath.Join(t.TempDir(), "nope")).Environment(context.Background(), "j", EnvironmentOptions{})
	if err == nil {
		t.Fatal("missing source directory accepted")
	}
}
