package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"":        INFO,
		"warning": WARN,
		" warn ":  WARN,
		"error":   ERROR,
	}
	for in, want := range cases {
		got, ok := ParseLevel(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, INFO, got)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(WARN)
	defer SetLevel(DEBUG)

	Debug("hidden debug")
	Infof("hidden %s", "info")
	Warnf("shown %d", 1)
	Error("shown error")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN ] ")
	assert.Contains(t, out, "shown 1")
	assert.Contains(t, out, "[ERROR] ")
	assert.NotContains(t, out, colorRed, "plain output must not carry colors")
}

func TestCallerIsReported(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(DEBUG)

	Info("where am i")
	assert.Contains(t, buf.String(), "logger_test.go")
}

func TestWithPrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(DEBUG)

	With("s3").Infof("uploaded %s", "a.jpg")
	line := buf.String()
	assert.Contains(t, line, "[s3] uploaded a.jpg")
	assert.Contains(t, line, "logger_test.go")
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init(path, false))
	SetLevel(DEBUG)

	Errorf("disk says %s", "hello")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "disk says hello"))
}

func TestInitRequiresDestination(t *testing.T) {
	assert.Error(t, Init("", false))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "WARN", WARN.String())
	assert.Equal(t, "LEVEL(9)", LogLevel(9).String())
}
