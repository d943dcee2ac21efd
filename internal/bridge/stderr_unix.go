//go:build unix

package bridge

import (
	"io"

	"golang.org/x/sys/unix"
)

// writeStderr writes p to fd 2 with raw write(2) calls. os.Stderr is not used
// because the os package turns EPIPE on fd 2 into a process-killing SIGPIPE.
func writeStderr(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := unix.Write(2, p[written:])
		if n > 0 {
			written += n
		}
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}
