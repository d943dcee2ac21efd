package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majorcontext/stacktracer/internal/config"
	"github.com/majorcontext/stacktracer/internal/ui"
)

func TestInspectTrace(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		frames  int
		located int
		wantErr string
	}{
		{
			name:    "resolved",
			text:    "   0: main.a\n             at /src/a.go:1\n   1: runtime.goexit\n             at asm.s:2\n",
			frames:  2,
			located: 2,
		},
		{
			name:    "no locations",
			text:    "   0: <unknown> (0x1)\n",
			frames:  1,
			wantErr: "symbol information unavailable",
		},
		{
			name:    "empty",
			text:    "",
			wantErr: "no frames",
		},
		{
			name:    "invalid utf-8",
			text:    "   0: main.\xff\n             at a.go:1\n",
			frames:  1,
			located: 1,
			wantErr: "UTF-8",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := inspectTrace(tt.text)
			assert.Equal(t, tt.frames, r.frames)
			assert.Equal(t, tt.located, r.located)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDoctorCommand(t *testing.T) {
	isolateHome(t)
	debugDir := t.TempDir()
	t.Setenv(config.EnvDebugDir, debugDir)

	out, err := execute(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, out, "Capture")
	assert.Contains(t, out, "Round trip:")
	assert.Contains(t, out, "Debug log:")

	logs, err := filepath.Glob(filepath.Join(debugDir, "stacktracer-*.jsonl"))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	content, err := os.ReadFile(logs[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"doctor finished"`)
}

func TestDoctorCommand_UnwritableDebugDir(t *testing.T) {
	isolateHome(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// log.Init fails on the same dir; the root command only warns about it.
	t.Setenv(config.EnvDebugDir, filepath.Join(blocker, "debug"))

	var warnings bytes.Buffer
	ui.SetWriter(&warnings)
	defer ui.SetWriter(nil)
	ui.SetColorEnabled(false)

	out, err := execute(t, "doctor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Configuration")
	assert.Contains(t, out, "debug dir not writable")
	assert.Contains(t, warnings.String(), "Warning: failed to initialize debug logging")
}
