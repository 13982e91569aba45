package ulogger_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ordishs/gocore"
	"github.com/smileycoin/smlypow/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var lines []map[string]interface{}

	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))

		lines = append(lines, line)
	}

	return lines
}

func TestZeroLoggerJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.New("diff", ulogger.WithWriter(&buf), ulogger.WithPretty(false), ulogger.WithLevel("DEBUG"))
	logger.Debugf("retarget at %d", 42)
	logger.Infof("done")

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 2)

	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "retarget at 42", lines[0]["message"])
	assert.Equal(t, "diff", lines[0]["service"])
	assert.Equal(t, "info", lines[1]["level"])
}

func TestZeroLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.New("diff", ulogger.WithWriter(&buf), ulogger.WithPretty(false), ulogger.WithLevel("WARN"))
	assert.Equal(t, int(gocore.WARN), logger.LogLevel())

	logger.Debugf("hidden")
	logger.Infof("hidden")
	logger.Warnf("shown")
	logger.Errorf("shown")

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 2)

	logger.SetLogLevel("debug")
	assert.Equal(t, int(gocore.DEBUG), logger.LogLevel())

	logger.SetLogLevel("nonsense")
	assert.Equal(t, int(gocore.INFO), logger.LogLevel())
}

func TestZeroLoggerNewKeepsParentOptions(t *testing.T) {
	var buf bytes.Buffer

	parent := ulogger.New("parent", ulogger.WithWriter(&buf), ulogger.WithPretty(false), ulogger.WithLevel("DEBUG"))
	child := parent.New("child")
	child.Debugf("from child")

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "child", lines[0]["service"])

	dup := parent.Duplicate(ulogger.WithLevel("ERROR"))
	dup.Infof("hidden")
	assert.Empty(t, buf.String())
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.New("diff", ulogger.WithWriter(&buf), ulogger.WithPretty(true), ulogger.WithLevel("INFO"))
	logger.Infof("pretty line")

	out := buf.String()
	assert.True(t, strings.Contains(out, "| diff  | pretty line"), out)
	assert.Contains(t, out, "INFO")
}

func TestNoneLogger(t *testing.T) {
	logger := ulogger.New("diff", ulogger.WithLoggerType("none"))
	_, ok := logger.(ulogger.TestLogger)
	assert.True(t, ok)
}

func TestVerboseTestLogger(t *testing.T) {
	logger := ulogger.NewVerboseTestLogger(t)
	logger.Debugf("debug %d", 1)
	logger.New("svc").Infof("info %d", 2)
	assert.Equal(t, 0, logger.LogLevel())
}
