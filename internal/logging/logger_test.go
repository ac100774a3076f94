package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	logger, closer, err := New(Options{Level: "warn"})
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	logger, _, err = New(Options{Level: "warn", Verbose: true})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewRejectsBadInput(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
	_, _, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cubescene.log")
	logger, closer, err := New(Options{Format: "json", File: path})
	require.NoError(t, err)
	logger.WithField("move", "R").Info("rotation finished")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"move":"R"`)
}

func TestComponent(t *testing.T) {
	logger, hook := test.NewNullLogger()
	Component(logger, "puzzle").Info("ready")
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "puzzle", hook.LastEntry().Data["component"])
}
