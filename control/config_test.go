package control_test

import (
	"bytes"
	"errors"
	"flag"
	"testing"

	"github.com/momentics/statrelay/control"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(kv map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := kv[k]
		return v, ok
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]control.Mode{
		"dump":     control.ModeDump,
		"DUMP":     control.ModeDump,
		"dumpfile": control.ModeDump,
		"Load":     control.ModeLoad,
		"loader":   control.ModeLoad,
	}
	for tok, want := range cases {
		got, err := control.ParseMode(tok)
		require.NoError(t, err, tok)
		assert.Equal(t, want, got, tok)
	}
	for _, tok := range []string{"", "dum", "lod", "send", "xdump"} {
		_, err := control.ParseMode(tok)
		assert.ErrorIs(t, err, control.ErrUsage, tok)
	}
}

func TestParseDefaults(t *testing.T) {
	var out bytes.Buffer
	cfg, err := control.Parse("statrelay", []string{"load", "9050"}, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, control.ModeLoad, cfg.Mode)
	assert.Equal(t, 9050, cfg.Port)
	assert.Equal(t, control.StdStream, cfg.Input)
	assert.Equal(t, control.StdStream, cfg.Output)
	assert.Equal(t, 8192, cfg.BufferSize)
	assert.Equal(t, 100, cfg.Backlog)
	assert.Empty(t, cfg.MetricsAddr)
	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, lvl)
	assert.Zero(t, out.Len())
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	lookup := env(map[string]string{
		control.EnvBufferSize:  "1024",
		control.EnvLogLevel:    "warn",
		control.EnvMetricsAddr: "127.0.0.1:9100",
	})
	var out bytes.Buffer
	cfg, err := control.Parse("statrelay",
		[]string{"-buffer-size", "4096", "-out", "dump.bin", "dump", "9051"}, lookup, &out)
	require.NoError(t, err)
	assert.Equal(t, control.ModeDump, cfg.Mode)
	assert.Equal(t, 4096, cfg.BufferSize)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
	assert.Equal(t, "dump.bin", cfg.Output)
}

func TestParseUsageErrors(t *testing.T) {
	cases := map[string][]string{
		"no args":       {},
		"one arg":       {"load"},
		"three args":    {"load", "1", "2"},
		"bad mode":      {"send", "9050"},
		"bad port":      {"load", "abc"},
		"zero port":     {"load", "0"},
		"huge port":     {"dump", "65536"},
		"unknown flag":  {"-nope", "load", "9050"},
		"bad buffer":    {"-buffer-size", "0", "dump", "9050"},
		"bad backlog":   {"-backlog", "-1", "dump", "9050"},
		"bad log level": {"-log-level", "loud", "dump", "9050"},
	}
	for name, args := range cases {
		var out bytes.Buffer
		_, err := control.Parse("statrelay", args, nil, &out)
		assert.ErrorIs(t, err, control.ErrUsage, name)
	}
}

func TestParseBadEnv(t *testing.T) {
	var out bytes.Buffer
	_, err := control.Parse("statrelay", []string{"load", "9050"},
		env(map[string]string{control.EnvBufferSize: "big"}), &out)
	require.ErrorIs(t, err, control.ErrUsage)
}

func TestParseHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := control.Parse("statrelay", []string{"-h"}, nil, &out)
	require.True(t, errors.Is(err, flag.ErrHelp))
	require.Contains(t, out.String(), control.Usage("statrelay"))
}

func TestValidate(t *testing.T) {
	cfg := control.DefaultConfig()
	require.ErrorIs(t, cfg.Validate(), control.ErrUsage)
	cfg.Mode = control.ModeDump
	cfg.Port = 1
	require.NoError(t, cfg.Validate())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "load", control.ModeLoad.String())
	assert.Equal(t, "dump", control.ModeDump.String())
	assert.Equal(t, "unknown", control.ModeUnknown.String())
}
