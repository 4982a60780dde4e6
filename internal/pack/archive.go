package pack

import (
	"archive/zip"
	"io"
	"os"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// Writes a single-file gzip archive for POSIX-class targets.
//
// The gzip header records the member name so decompression restores the
// asset name without consulting the archive file name.
func writeGzip(archivePath, binPath, name string) error {
	in, err := os.Open(binPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}

	gw, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		out.Close()
		return err
	}
	gw.Name = name

	if _, err := io.Copy(gw, in); err != nil {
		gw.Close()
		out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Writes a zip archive holding the binary for Windows-class targets.
func writeZip(archivePath, binPath, name string) error {
	in, err := os.Open(binPath)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(archivePath)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		zw.Close()
		out.Close()
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	entry, err := zw.CreateHeader(header)
	if err != nil {
		zw.Close()
		out.Close()
		return err
	}
	if _, err := io.Copy(entry, in); err != nil {
		zw.Close()
		out.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
