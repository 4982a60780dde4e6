package runtime

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Stages the host source tree into the container.
//
// The tree at src is written as a tar stream and extracted at dest by
// piping it to "tar xf - -C dest" inside the container.
func (c *Container) stageSource(ctx context.Context, src, dest string) error {
	if err := c.mustExec(ctx, "mkdir", nil, nil, "mkdir", "-p", dest); err != nil {
		return err
	}

	pr, pw := io.Pipe()

	go func() {
		tw := tar.NewWriter(pw)
		err := writeDirTar(tw, src)
		tw.Close()
		pw.CloseWithError(err)
	}()

	err := c.mustExec(ctx, "tar extract", pr, nil, "tar", "xf", "-", "-C", dest)

	// If the in-container extract died mid-stream, the writer goroutine is
	// still blocked on the pipe; closing the read side lets it exit.
	pr.CloseWithError(err)

	return err
}

// Copies a single file out of the container to a host path.
//
// The file is archived by running "tar cf -" inside the container and the
// stream is extracted on the host. Fails when the source does not exist.
func (c *Container) Pull(ctx context.Context, src, dest string) error {
	pr, pw := io.Pipe()

	errc := make(chan error, 1)
	go func() {
		err := c.mustExec(ctx, "tar archive", nil, pw, "tar", "cf", "-", "-C", filepath.Dir(src), filepath.Base(src))
		pw.CloseWithError(err)
		errc <- err
	}()

	extractErr := extractFileTar(pr, filepath.Base(src), dest)

	// Unblock the archiving side if extraction bailed out mid-stream,
	// otherwise its stdout copy never finishes and mustExec never returns.
	pr.CloseWithError(extractErr)

	if err := <-errc; err != nil {
		return err
	}
	return extractErr
}

// Helper method that runs a command inside the container, returning an
// error that includes desc if the process exits with a non-zero code.
func (c *Container) mustExec(ctx context.Context, desc string, stdin io.Reader, stdout io.Writer, args ...string) error {
	pspec, err := c.buildProcessSpec(ctx, nil, "", args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRuntime, err)
	}

	var stderr limitedBuffer
	exitCode, err := c.execProcess(ctx, pspec, stdin, stdout, &stderr)
	if err != nil {
		return err
	}
	if exitCode != 0 {
		return fmt.Errorf("%w: %s failed with exit code %d (%s)", ErrRuntime, desc, exitCode, stderr.String())
	}
	return nil
}

// Writes a directory tree to a tar writer with paths relative to the root.
func writeDirTar(tw *tar.Writer, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)

		if err := tw.WriteHeader(header); err != nil {
			return err
		}

		if info.Mode().IsRegular() {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			_, err = io.Copy(tw, f)
			return err
		}

		return nil
	})
}

// Extracts a single named file from a tar stream to a host path.
func extractFileTar(r io.Reader, name, dest string) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRuntime, err)
		}

		if filepath.Base(header.Name) != name || !header.FileInfo().Mode().IsRegular() {
			continue
		}

		out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode)&os.ModePerm)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRuntime, err)
		}

		if _, err := io.Copy(out, tr); err != nil {
			out.Close()
			return fmt.Errorf("%w: %w", ErrRuntime, err)
		}
		if err := out.Close(); err != nil {
			return fmt.Errorf("%w: %w", ErrRuntime, err)
		}

		// Consume the padding and trailer blocks so the writer can finish
		// the stream instead of blocking on a pipe nobody reads.
		io.Copy(io.Discard, r)
		return nil
	}

	return fmt.Errorf("%w: %q not found in archive stream", ErrRuntime, name)
}
