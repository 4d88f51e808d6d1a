package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestConfigureLevels(t *testing.T) {
	t.Cleanup(func() { Replace(nil) })

	cases := []struct {
		name    string
		opts    Options
		enabled zapcore.Level
		muted   zapcore.Level
	}{
		{"json debug", Options{Level: "debug"}, zap.DebugLevel, zap.DebugLevel - 1},
		{"console warn", Options{Level: "warn", Format: "console"}, zap.WarnLevel, zap.InfoLevel},
		{"unknown level falls back to info", Options{Level: "chatty"}, zap.InfoLevel, zap.DebugLevel},
		{"blank level", Options{Format: FormatJSON}, zap.InfoLevel, zap.DebugLevel},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, Configure(tc.opts))
			core := Logger().Core()
			require.True(t, core.Enabled(tc.enabled))
			require.False(t, core.Enabled(tc.muted))
		})
	}
}

func TestConfigureRejectsUnknownFormat(t *testing.T) {
	t.Cleanup(func() { Replace(nil) })

	err := Configure(Options{Level: "info", Format: "xml"})
	require.ErrorContains(t, err, "unknown format")
}

func TestReplaceNilInstallsNop(t *testing.T) {
	Replace(nil)
	require.NotNil(t, Logger())
	require.False(t, Logger().Core().Enabled(zap.ErrorLevel))
}

func TestWithModuleAttachesModuleField(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	t.Cleanup(func() { Replace(nil) })
	Replace(zap.New(core))

	WithModule("entries").Info("listed", zap.Int("count", 2))

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "entries", fields["module"])
	require.EqualValues(t, 2, fields["count"])
}
