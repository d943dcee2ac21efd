// Package bridge implements the C-facing stack trace operations.
//
// It is the only code that converts between Go strings and C buffers: Get
// copies the rendered trace into memory from the C allocator and hands
// ownership to the caller, Free releases it. cmd/libstacktracer exports these
// functions with C linkage.
//
// Handles are unsafe.Pointer values so that other packages (which have their
// own distinct C.char type) can convert them.
package bridge

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"io"
	"strings"
	"unsafe"

	"github.com/majorcontext/stacktracer/internal/backtrace"
	"github.com/majorcontext/stacktracer/internal/log"
)

// render captures and formats the stack starting skip frames above its
// caller. Replaced in tests.
var render = func(skip int) string {
	return backtrace.Capture(skip + 1).String()
}

// stderr writes to the diagnostic stream. Replaced in tests.
var stderr = writeStderr

// Stderr writes to fd 2 the same way Print does. Writes to a closed or broken
// fd 2 fail with an error instead of raising SIGPIPE in the host.
var Stderr io.Writer = fdStderr{}

type fdStderr struct{}

func (fdStderr) Write(p []byte) (int, error) { return writeStderr(p) }

// Print writes the calling thread's stack trace followed by a newline to
// file descriptor 2. It never panics and reports no errors: a closed or
// broken stderr must not take the host process down.
func Print() {
	defer func() {
		if r := recover(); r != nil {
			log.Debug("print-stacktrace recovered", "panic", fmt.Sprint(r), "tid", threadID())
		}
	}()

	text := render(1)
	n, err := stderr([]byte(text + "\n"))
	log.Debug("print-stacktrace", "bytes", n, "error", err, "tid", threadID())
}

// Get returns the calling thread's stack trace as a NUL-terminated C string
// owned by the caller, who must release it with Free. It returns nil if the
// trace contains a NUL byte or capture fails.
func Get() (handle unsafe.Pointer) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug("get-stacktrace recovered", "panic", fmt.Sprint(r), "tid", threadID())
			handle = nil
		}
	}()

	text := render(1)
	if i := strings.IndexByte(text, 0); i >= 0 {
		log.Debug("get-stacktrace: trace contains NUL", "offset", i, "tid", threadID())
		return nil
	}
	handle = unsafe.Pointer(C.CString(text))
	log.Debug("get-stacktrace", "bytes", len(text)+1, "handle", fmt.Sprintf("%p", handle), "tid", threadID())
	return handle
}

// Free releases a handle returned by Get. A nil handle is ignored. Freeing a
// handle twice, or one not returned by Get, is undefined behavior.
func Free(handle unsafe.Pointer) {
	if handle == nil {
		return
	}
	C.free(handle)
}

// Text decodes a handle without taking ownership of it. ok is false for a nil
// handle.
func Text(handle unsafe.Pointer) (text string, ok bool) {
	if handle == nil {
		return "", false
	}
	return C.GoString((*C.char)(handle)), true
}
