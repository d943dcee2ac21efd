package main

import (
	"io"
	"sync"

	"github.com/majorcontext/stacktracer/internal/bridge"
	"github.com/majorcontext/stacktracer/internal/config"
	"github.com/majorcontext/stacktracer/internal/log"
)

var setupOnce sync.Once

// setup loads configuration and initializes logging on the first call into
// the library.
func setup() {
	setupOnce.Do(func() { initialize(bridge.Stderr) })
}

// initialize configures logging from the config file and environment. A
// failure falls back to stderr-only logging at Warn and is reported there.
// stderr nil means os.Stderr.
func initialize(stderr io.Writer) {
	cfg, cfgErr := config.Load()
	opts := log.Options{
		Verbose:       cfg.Log.Verbose,
		JSONFormat:    cfg.Log.JSON,
		Component:     "lib",
		DebugDir:      cfg.Debug.Dir,
		RetentionDays: cfg.Debug.RetentionDays,
		Stderr:        stderr,
	}
	if err := log.Init(opts); err != nil {
		opts.DebugDir = ""
		_ = log.Init(opts) // without a debug dir Init cannot fail
		log.Warn("stacktracer: debug logging disabled", "dir", cfg.Debug.Dir, "error", err)
	}
	if cfgErr != nil {
		log.Warn("stacktracer: using default config", "path", config.Path(), "error", cfgErr)
	}
	log.Debug("stacktracer loaded", "config", config.Path(), "debug_dir", cfg.Debug.Dir)
}
