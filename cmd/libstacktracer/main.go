// Command libstacktracer builds the C library:
//
//	go build -buildmode=c-shared -o libstacktracer.so ./cmd/libstacktracer
//
// cgo writes libstacktracer.h next to the library. Every exported function
// captures the Go stack of the calling thread.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/majorcontext/stacktracer/internal/bridge"
)

//export stacktracer_print_stacktrace
func stacktracer_print_stacktrace() {
	setup()
	bridge.Print()
}

//export stacktracer_get_stacktrace
func stacktracer_get_stacktrace() *C.char {
	setup()
	return (*C.char)(bridge.Get())
}

//export stacktracer_free_stacktrace
func stacktracer_free_stacktrace(s *C.char) {
	bridge.Free(unsafe.Pointer(s))
}

func main() {}
