//go:build !unix

package bridge

import "os"

func writeStderr(p []byte) (int, error) {
	return os.Stderr.Write(p)
}
