package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"unsafe"

	"github.com/majorcontext/stacktracer/internal/bridge"
	"github.com/majorcontext/stacktracer/internal/log"
	"github.com/majorcontext/stacktracer/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	getCount       int
	getConcurrency int
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Capture stack traces as C strings and print them",
	Long: `Capture one or more stack traces through the bridge, decode each C string,
write it to stdout and free it.

Sequential captures all come from the same call site and print identical
traces. With --concurrency, capture i runs on its own OS thread at call
depth i, so each trace shows i extra frames.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if getCount < 1 {
			return fmt.Errorf("--count must be at least 1")
		}
		handles, err := captureTraces(getCount, getConcurrency)
		if err != nil {
			return err
		}
		header := ui.IsTerminal(os.Stdout)
		return writeTraces(cmd.OutOrStdout(), handles, header)
	},
}

func init() {
	getCmd.Flags().IntVarP(&getCount, "count", "n", 1, "number of traces to capture")
	getCmd.Flags().IntVar(&getConcurrency, "concurrency", 1, "capture on up to this many threads at once")
	rootCmd.AddCommand(getCmd)
}

// captureTraces returns count handles from bridge.Get. Ownership of every
// non-nil handle passes to the caller.
func captureTraces(count, concurrency int) ([]unsafe.Pointer, error) {
	handles := make([]unsafe.Pointer, count)
	if concurrency <= 1 {
		for i := range handles {
			handles[i] = bridge.Get()
		}
		return handles, nil
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i := range handles {
		g.Go(func() error {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			handles[i] = getAtDepth(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return handles, nil
}

// getAtDepth captures after recursing depth times.
//
//go:noinline
func getAtDepth(depth int) unsafe.Pointer {
	if depth == 0 {
		return bridge.Get()
	}
	return getAtDepth(depth - 1)
}

// writeTraces decodes each handle to w and frees it. All handles are freed
// even if writing fails. A nil handle is reported and counted as a failure.
func writeTraces(w io.Writer, handles []unsafe.Pointer, header bool) error {
	var writeErr error
	missing := 0
	for i, h := range handles {
		text, ok := bridge.Text(h)
		if !ok {
			missing++
			ui.Warnf("capture %d returned no trace", i)
			continue
		}
		if writeErr == nil {
			if header {
				_, writeErr = fmt.Fprintln(w, ui.Bold(fmt.Sprintf("trace %d", i)))
			}
			if writeErr == nil {
				_, writeErr = io.WriteString(w, text)
			}
		}
		bridge.Free(h)
		log.Debug("freed trace", "index", i, "bytes", len(text)+1)
	}
	if writeErr != nil {
		return fmt.Errorf("writing traces: %w", writeErr)
	}
	if missing > 0 {
		return fmt.Errorf("%d of %d captures returned no trace", missing, len(handles))
	}
	return nil
}
