package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvOrder, "")
	t.Setenv(EnvJournal, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Puzzle.Order)
	assert.Equal(t, 30, cfg.Animation.Speed)
	assert.Equal(t, 10, cfg.Animation.LetterSpeed)
	assert.Equal(t, "quintic", cfg.Animation.Easing)
	assert.Empty(t, cfg.Journal.Path)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Setenv(EnvOrder, "")
	t.Setenv(EnvJournal, "")
	path := filepath.Join(t.TempDir(), "cubescene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
puzzle:
  order: 4
animation:
  easing: spring
journal:
  path: /tmp/j.db
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Puzzle.Order)
	assert.Equal(t, "spring", cfg.Animation.Easing)
	assert.Equal(t, 30, cfg.Animation.Speed, "unset keys keep defaults")
	assert.Equal(t, "/tmp/j.db", cfg.Journal.Path)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvOrder, "5")
	t.Setenv(EnvJournal, "journal.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Puzzle.Order)
	assert.Equal(t, "journal.db", cfg.Journal.Path)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Puzzle.Order = 1
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.Animation.Speed = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.Animation.Easing = "bounce"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	assert.NoError(t, Default().Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvOrder, "")
	t.Setenv(EnvJournal, "")
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Scramble.Seed = 99
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
