package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("PROPTIC_API_URL", "")
	t.Setenv("PROPTIC_DATA_DIR", "")
	t.Setenv("PROPTIC_DEBUG", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, defaultAPIURL, cfg.APIURL)
	require.Equal(t, filepath.Join(dir, "data", "proptic"), cfg.DataDir)
	require.Equal(t, 10, cfg.Options.PageSize)
	require.Equal(t, "USD", cfg.Options.Currency)
	require.Equal(t, filepath.Join(dir, "config", "proptic", FileName), cfg.Path())
	require.Equal(t, filepath.Join(cfg.DataDir, "cache.db"), cfg.CacheFile())
}

func TestLoadMergesLocalOverGlobal(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(dir, "config", "proptic", FileName),
		`{"api_url": "https://global.example/api/", "options": {"page_size": 20, "currency": "EUR"}}`)
	writeFile(t, filepath.Join(dir, FileName), `{"options": {"page_size": 30}}`)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://global.example/api/", cfg.APIURL)
	require.Equal(t, 30, cfg.Options.PageSize)
	require.Equal(t, "EUR", cfg.Options.Currency)
}

func TestLoadExplicitPathAndEnv(t *testing.T) {
	dir := isolate(t)

	explicit := filepath.Join(dir, "custom.json")
	writeFile(t, explicit, `{"api_url": "https://file.example/", "debug": false}`)
	writeFile(t, filepath.Join(dir, FileName), `{"options": {"page_size": 50}}`)
	t.Setenv("PROPTIC_API_URL", "https://env.example/")
	t.Setenv("PROPTIC_DEBUG", "true")

	cfg, err := Load(explicit)
	require.NoError(t, err)
	require.Equal(t, "https://env.example/", cfg.APIURL)
	require.True(t, cfg.Debug)
	require.Equal(t, 10, cfg.Options.PageSize, "local file is ignored with an explicit path")
	require.Equal(t, explicit, cfg.Path())
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	os.Unsetenv("PROPTIC_DATA_DIR")
	writeFile(t, filepath.Join(dir, ".env"), "PROPTIC_DATA_DIR="+filepath.Join(dir, "dotenv")+"\n")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "dotenv"), cfg.DataDir)
}

func TestLoadInvalid(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(dir, FileName), `{"options":`)
	_, err := Load("")
	require.Error(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, FileName)))
	t.Setenv("PROPTIC_DEBUG", "maybe")
	_, err = Load("")
	require.ErrorContains(t, err, "PROPTIC_DEBUG")
}

func TestSetConfigField(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "config", "proptic", FileName)
	writeFile(t, path, `{"api_url": "https://keep.example/"}`)

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.SetConfigField("options.last_email", "jane@example.com"))
	require.Equal(t, "jane@example.com", cfg.ConfigField("options.last_email").String())
	require.Equal(t, "https://keep.example/", cfg.ConfigField("api_url").String())

	info, err := os.Stat(path)
	require.NoError(t, err)
	before := info.ModTime()
	require.NoError(t, cfg.SetConfigField("options.last_email", "jane@example.com"))
	info, err = os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before, info.ModTime(), "unchanged values are not rewritten")

	reloaded, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "jane@example.com", reloaded.Options.LastEmail)
}

func BenchmarkLoadFromConfigPaths(b *testing.B) {
	dir := b.TempDir()
	global := filepath.Join(dir, "global.json")
	local := filepath.Join(dir, "local.json")
	if err := os.WriteFile(global, []byte(`{"api_url": "https://api.example/", "options": {"page_size": 20}}`), 0o644); err != nil {
		b.Fatal(err)
	}
	if err := os.WriteFile(local, []byte(`{"options": {"currency": "KES"}}`), 0o644); err != nil {
		b.Fatal(err)
	}
	paths := []string{global, filepath.Join(dir, "missing.json"), local}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := loadFromConfigPaths(paths); err != nil {
			b.Fatal(err)
		}
	}
}
