package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/beaterhtml/dom"
	"github.com/chrisuehlinger/beaterhtml/reporter"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "beater", cfg.ContainerID)
	assert.Equal(t, "#00ff00", cfg.SuccessColor)
	assert.Equal(t, "#ff0000", cfg.FailureColor)
	assert.Equal(t, DefaultTitle, cfg.Title)
	assert.Equal(t, log.LevelInfo, cfg.Level())
}

func TestLoad(t *testing.T) {
	cfg, err := Load("testdata/full.yaml")
	require.NoError(t, err)
	assert.Equal(t, &Config{
		ContainerID:   "results",
		SuccessColor:  "green",
		FailureColor:  "rgb(200, 0, 0)",
		Title:         "Nightly run",
		LogLevel:      "debug",
		ScriptTimeout: 2 * time.Second,
	}, cfg)
	assert.Equal(t, log.LevelDebug, cfg.Level())
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load("testdata/partial.yaml")
	require.NoError(t, err)

	want := Default()
	want.Title = "Partial"
	assert.Equal(t, want, cfg)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("testdata/bad_color.yaml")
	require.Error(t, err)
	assert.ErrorContains(t, err, `success_color "not-a-color" is not a CSS color`)
	assert.ErrorContains(t, err, "container_id must not be empty")

	_, err = Load("testdata/unknown_key.yaml")
	assert.ErrorContains(t, err, "field container not found")

	_, err = Load("testdata/missing.yaml")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_FindsLocalFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg, "no file means defaults")

	require.NoError(t, os.WriteFile(FileName, []byte("title: Local\n"), 0o600))
	assert.Equal(t, FileName, FindPath())

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "Local", cfg.Title)
}

func TestFindPath_UsesUserConfigDir(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	xdg := filepath.Join(dir, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", filepath.Join(dir, "home"))

	path := filepath.Join(xdg, "beaterhtml", FileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))

	assert.Equal(t, path, FindPath())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, log.LevelWarn, cfg.Level())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]interface{}{
		"trace": log.LevelTrace,
		"DEBUG": log.LevelDebug,
		"":      log.LevelInfo,
		"warn":  log.LevelWarn,
		"error": log.LevelError,
		"crit":  log.LevelCrit,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestReporterOptions(t *testing.T) {
	cfg := Default()
	cfg.ContainerID = "out"
	cfg.FailureColor = "crimson"

	r := reporter.NewWithDocument(dom.NewHTMLDocument(""), cfg.ReporterOptions(nil)...)
	r.Finished([]reporter.TestResult{{Test: reporter.Test{Name: "x"}, Error: &reporter.ErrorDescriptor{Name: "E", Message: "m"}}})

	assert.Equal(t, "out", r.ContainerID())
	require.NotNil(t, r.Document().GetElementById("out"))
	assert.Contains(t, r.Entries()[1].InnerHTML(), `color: crimson`)
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
