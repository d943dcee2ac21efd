package backtrace

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// initialDepth is the PC buffer size of the first capture attempt.
// Deeper stacks double the buffer until they fit.
const initialDepth = 64

// Frame is a single resolved call frame.
type Frame struct {
	// Function is the package-qualified function name, empty if the
	// symbolizer could not resolve it.
	Function string
	File     string
	Line     int
	// PC is the program counter of the call, Entry the function's entry
	// address. Entry is zero for unresolved frames.
	PC    uintptr
	Entry uintptr
}

// Backtrace is an immutable capture of a goroutine's call stack, innermost
// frame first.
type Backtrace struct {
	frames []Frame
}

// Capture records the calling goroutine's full stack. skip is the number of
// frames above the caller of Capture to omit: 0 starts the trace at the
// function that called Capture.
func Capture(skip int) *Backtrace {
	if skip < 0 {
		skip = 0
	}
	pcs := make([]uintptr, initialDepth)
	var n int
	for {
		// +2 skips runtime.Callers and Capture itself.
		n = runtime.Callers(skip+2, pcs)
		if n < len(pcs) {
			break
		}
		pcs = make([]uintptr, len(pcs)*2)
	}
	return resolve(pcs[:n])
}

func resolve(pcs []uintptr) *Backtrace {
	bt := &Backtrace{}
	if len(pcs) == 0 {
		return bt
	}
	frames := runtime.CallersFrames(pcs)
	for {
		f, more := frames.Next()
		bt.frames = append(bt.frames, Frame{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
			PC:       f.PC,
			Entry:    f.Entry,
		})
		if !more {
			break
		}
	}
	return bt
}

// Frames returns a copy of the captured frames.
func (b *Backtrace) Frames() []Frame {
	out := make([]Frame, len(b.frames))
	copy(out, b.frames)
	return out
}

// Len returns the number of captured frames.
func (b *Backtrace) Len() int {
	return len(b.frames)
}

// WriteTo writes the multi-line rendering of b to w.
func (b *Backtrace) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, f := range b.frames {
		n, err := io.WriteString(w, formatFrame(i, f))
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the multi-line rendering of b. Every frame entry ends in a
// newline.
func (b *Backtrace) String() string {
	var sb strings.Builder
	_, _ = b.WriteTo(&sb)
	return sb.String()
}

func formatFrame(i int, f Frame) string {
	var sb strings.Builder
	if f.Function == "" {
		fmt.Fprintf(&sb, "%4d: <unknown> (0x%x)\n", i, f.PC)
	} else {
		fmt.Fprintf(&sb, "%4d: %s\n", i, f.Function)
	}
	if f.File != "" {
		fmt.Fprintf(&sb, "             at %s:%d\n", f.File, f.Line)
	}
	return sb.String()
}
