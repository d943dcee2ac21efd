// Package backtrace captures and renders the calling goroutine's stack.
//
// The Go runtime is the unwinder and symbolizer: Capture records every
// program counter on the stack with runtime.Callers, growing its buffer until
// the whole stack fits, and resolves them with runtime.CallersFrames so that
// inlined calls appear as their own frames.
//
// # Rendering
//
// String and WriteTo produce one entry per frame:
//
//	   0: main.handler
//	             at /src/app/main.go:42
//	   1: runtime.goexit
//	             at /usr/local/go/src/runtime/asm_amd64.s:1700
//
// The rendering contains no goroutine ids or argument values, so two captures
// of an unchanged call stack render identically. No frames are filtered.
package backtrace
