package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Debug   bool   `json:"debug"`
	Timeout int    `json:"timeout"`
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{
		// comments are allowed
		base_url: "https://itch.io",
		timeout: 10,
	}`), 0600)
	require.NoError(t, err)
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{timeout: 30}`), 0600)
	require.NoError(t, err)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://itch.io", cfg.BaseUrl)
	require.Equal(t, 30, cfg.Timeout)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}

func TestReadConfigOr(t *testing.T) {
	dir := t.TempDir()
	defaults := testConfig{BaseUrl: "https://itch.io", Timeout: 5}

	cfg, err := ReadConfigOr(filepath.Join(dir, "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	err = os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{debug: true, timeout: 60}`), 0600)
	require.NoError(t, err)

	cfg, err = ReadConfigOr(filepath.Join(dir, "config.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{BaseUrl: "https://itch.io", Debug: true, Timeout: 60}, cfg)
}
