package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/majorcontext/stacktracer/internal/bridge"
	"github.com/majorcontext/stacktracer/internal/config"
	"github.com/majorcontext/stacktracer/internal/doctor"
	"github.com/majorcontext/stacktracer/internal/log"
	"github.com/majorcontext/stacktracer/internal/ui"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that stack traces can be captured and logged",
	Long: `Runs diagnostics for the stack trace bridge:

- Build and platform information
- Configuration file and debug log directory
- A full capture round trip (get, decode, free)`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.Bold("stacktracer doctor"))
	fmt.Fprintln(out)

	reg := doctor.NewRegistry()
	reg.Register(&versionSection{})
	reg.Register(&configSection{})
	reg.Register(&captureSection{})

	failed := reg.Run(out, ui.Section)
	log.Info("doctor finished", "sections", len(reg.Sections()), "failed", len(failed))
	if len(failed) > 0 {
		return fmt.Errorf("%d check(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

type versionSection struct{}

func (s *versionSection) Name() string { return "Version" }

func (s *versionSection) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Version:\t%s\n", version)
	fmt.Fprintf(tw, "Platform:\t%s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(tw, "Go:\t%s\n", runtime.Version())
	return tw.Flush()
}

type configSection struct{}

func (s *configSection) Name() string { return "Configuration" }

func (s *configSection) Print(w io.Writer) error {
	path := config.Path()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(tw, "Config file:\t%s\n", path)
	} else {
		fmt.Fprintf(tw, "Config file:\t%s %s\n", path, ui.Dim("(not found, using defaults)"))
	}

	if cfg.Debug.Dir == "" {
		fmt.Fprintf(tw, "Debug log:\t%s\n", ui.Dim("disabled"))
		return tw.Flush()
	}
	if err := checkWritable(cfg.Debug.Dir); err != nil {
		fmt.Fprintf(tw, "Debug log:\t%s %s\n", ui.FailTag(), cfg.Debug.Dir)
		tw.Flush()
		return fmt.Errorf("debug dir not writable: %w", err)
	}
	fmt.Fprintf(tw, "Debug log:\t%s %s (retention %d days)\n", ui.OKTag(), cfg.Debug.Dir, cfg.Debug.RetentionDays)
	return tw.Flush()
}

func checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

type captureSection struct{}

func (s *captureSection) Name() string { return "Capture" }

func (s *captureSection) Print(w io.Writer) error {
	h := bridge.Get()
	text, ok := bridge.Text(h)
	if !ok {
		return errors.New("get-stacktrace returned NULL")
	}
	bridge.Free(h)

	report, err := inspectTrace(text)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Frames:\t%d\n", report.frames)
	fmt.Fprintf(tw, "With source location:\t%d\n", report.located)
	fmt.Fprintf(tw, "Size:\t%d bytes\n", len(text)+1)
	if err == nil {
		fmt.Fprintf(tw, "Round trip:\t%s\n", ui.OKTag())
	}
	tw.Flush()
	return err
}

type traceReport struct {
	frames  int
	located int
}

// inspectTrace counts frames in a rendered trace and checks that it is usable.
func inspectTrace(text string) (traceReport, error) {
	var r traceReport
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		switch {
		case strings.HasPrefix(strings.TrimLeft(line, " "), "at "):
			r.located++
		case line != "":
			r.frames++
		}
	}
	switch {
	case !utf8.ValidString(text):
		return r, errors.New("trace is not valid UTF-8")
	case r.frames == 0:
		return r, errors.New("trace has no frames")
	case r.located == 0:
		return r, errors.New("no frame has a source location; symbol information unavailable")
	}
	return r, nil
}
