package runtime

import (
	"io"
	"sync"
)

// Maximum number of bytes a limitedBuffer retains.
const limitedBufferSize = 4096

// Wraps an [io.Reader] and signals when it returns [io.EOF].
//
// The done channel is closed exactly once on the first EOF, making it safe
// to use from multiple goroutines.
type doneReader struct {
	r    io.Reader
	once sync.Once
	done chan struct{}
}

// Creates a new [doneReader] wrapping the given reader.
func newDoneReader(r io.Reader) *doneReader {
	return &doneReader{r: r, done: make(chan struct{})}
}

// Delegates to the underlying reader.
//
// Closes the done channel on the first [io.EOF]. Non-EOF errors are
// returned without closing the channel.
func (d *doneReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if err == io.EOF {
		d.once.Do(func() { close(d.done) })
	}
	return n, err
}

// A writer that keeps only the most recent [limitedBufferSize] bytes.
//
// Build and install steps can produce megabytes of output; error reports
// only need the tail.
type limitedBuffer struct {
	buf []byte
}

// Appends p, discarding the oldest bytes beyond the size limit.
func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	if over := len(b.buf) - limitedBufferSize; over > 0 {
		b.buf = b.buf[over:]
	}
	return len(p), nil
}

// Returns the retained tail.
func (b *limitedBuffer) String() string {
	return string(b.buf)
}
