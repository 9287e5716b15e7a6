package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	os.Unsetenv("SLIDEVIEW_HOST")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFile(t *testing.T) {
	os.Unsetenv("SLIDEVIEW_HOST")

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	content := "host: http://slides:9000\ncache: true\ntimeout: 5s\ncontainer:\n  width: 640\n  height: 480\n"
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://slides:9000", cfg.Host)
	assert.True(t, cfg.Cache)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, Container{Width: 640, Height: 480}, cfg.Container)
	assert.Equal(t, ReferenceStrokeWidth, cfg.ReferenceStrokeWidth)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestHostFromEnv(t *testing.T) {
	os.Setenv("SLIDEVIEW_HOST", "http://env:1")
	defer os.Unsetenv("SLIDEVIEW_HOST")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://env:1", cfg.Host)
}

func TestLoadInvalidYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("host: [unterminated"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	os.Unsetenv("SLIDEVIEW_HOST")

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := Default()
	cfg.Host = "http://saved:1"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
