package main

import (
	"bytes"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) { return "", false }

func freePort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return strconv.Itoa(port)
}

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{
		{"statrelay"},
		{"statrelay", "send", "9050"},
		{"statrelay", "load"},
		{"statrelay", "load", "port"},
	} {
		var stdout, stderr bytes.Buffer
		code := run(args, strings.NewReader(""), &stdout, &stderr, noEnv)
		assert.Equal(t, exitFailure, code, args)
		assert.Contains(t, stderr.String(), "usage: statrelay [flags] <'dump'|'load'> <port>", args)
		assert.Zero(t, stdout.Len())
	}
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"statrelay", "-h"}, strings.NewReader(""), &stdout, &stderr, noEnv)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr.String(), "-buffer-size")
}

func TestRunLoadEmptyInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	// nobody listens on the port, so success proves no connection was tried
	code := run([]string{"statrelay", "load", freePort(t)}, strings.NewReader(""), &stdout, &stderr, noEnv)
	assert.Equal(t, exitOK, code, stderr.String())
	assert.NotContains(t, stderr.String(), "connection established")
	assert.Contains(t, stderr.String(), "load finished")
}

func TestRunLoadMissingInputFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"statrelay", "-in", t.TempDir() + "/missing.log", "load", "9050"}
	code := run(args, strings.NewReader(""), &stdout, &stderr, noEnv)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr.String(), "unable to open input")
}
