package runtime

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Writes a one-file tar stream the way "tar cf -" does, trailer included,
// and reports on done once every byte has been accepted by the pipe.
func writeFileTar(t *testing.T, pw *io.PipeWriter, name string, body []byte) <-chan error {
	t.Helper()

	done := make(chan error, 1)
	go func() {
		tw := tar.NewWriter(pw)
		header := &tar.Header{Name: name, Mode: 0755, Size: int64(len(body)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(header); err != nil {
			pw.CloseWithError(err)
			done <- err
			return
		}
		if _, err := tw.Write(body); err != nil {
			pw.CloseWithError(err)
			done <- err
			return
		}
		err := tw.Close()
		pw.CloseWithError(err)
		done <- err
	}()
	return done
}

func TestExtractFileTarDrainsStream(t *testing.T) {
	pr, pw := io.Pipe()
	done := writeFileTar(t, pw, "gnd", []byte("ELF payload"))

	dest := filepath.Join(t.TempDir(), "gnd")
	if err := extractFileTar(pr, "gnd", dest); err != nil {
		t.Fatalf("extractFileTar failed: %v", err)
	}

	// The trailer blocks follow the file's data. If extraction returns
	// without consuming them, the writing side stays blocked on the pipe
	// forever and so would any caller waiting on it.
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("writer failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("writer still blocked after extraction finished")
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ELF payload" {
		t.Fatalf("extracted content = %q", data)
	}
}

func TestExtractFileTarPreservesMode(t *testing.T) {
	pr, pw := io.Pipe()
	done := writeFileTar(t, pw, "gnd", []byte("x"))

	dest := filepath.Join(t.TempDir(), "gnd")
	if err := extractFileTar(pr, "gnd", dest); err != nil {
		t.Fatal(err)
	}
	<-done

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Fatalf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestExtractFileTarMissingFile(t *testing.T) {
	pr, pw := io.Pipe()
	done := writeFileTar(t, pw, "other", []byte("x"))

	err := extractFileTar(pr, "gnd", filepath.Join(t.TempDir(), "gnd"))
	if !errors.Is(err, ErrRuntime) {
		t.Fatalf("err = %v, want ErrRuntime", err)
	}
	<-done
}

func TestWriteDirTarStopsWhenReaderCloses(t *testing.T) {
	src := t.TempDir()

	// Large enough that the writer must block on the unbuffered pipe.
	big := bytes.Repeat([]byte("source"), 1<<18)
	if err := os.WriteFile(filepath.Join(src, "main.rs"), big, 0644); err != nil {
		t.Fatal(err)
	}

	pr, pw := io.Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		tw := tar.NewWriter(pw)
		err := writeDirTar(tw, src)
		tw.Close()
		pw.CloseWithError(err)
	}()

	// The consuming process dies mid-stream; closing the read side must
	// unblock the writer rather than leaking it for the process lifetime.
	buf := make([]byte, 512)
	if _, err := pr.Read(buf); err != nil {
		t.Fatal(err)
	}
	pr.CloseWithError(errors.New("tar extract exited 2"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tar writer still blocked after the consumer failed")
	}
}

func TestWriteDirTarRoundTrip(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "src", "main.rs"), []byte("fn main() {}"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	if err := writeDirTar(tw, src); err != nil {
		t.Fatalf("writeDirTar failed: %v", err)
	}
	tw.Close()

	tr := tar.NewReader(&buf)
	var names []string
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, header.Name)
	}

	want := map[string]bool{"src": true, "src/main.rs": true}
	if len(names) != len(want) {
		t.Fatalf("entries = %v", names)
	}
	for _, name := range names {
		if !want[name] {
			t.Errorf("unexpected entry %q", name)
		}
	}
}
