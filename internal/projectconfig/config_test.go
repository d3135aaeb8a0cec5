package projectconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()
	require.Equal(t, DefaultDataFile, cfg.Paths.Data)
	require.Equal(t, DefaultQuestionsFile, cfg.Paths.Questions)
	require.Equal(t, DefaultSortOrder, cfg.Defaults.SortOrder)
	require.NotNil(t, cfg.Defaults.RowLevel)
	require.False(t, *cfg.Defaults.RowLevel)
	require.NotNil(t, cfg.Cache.Enabled)
	require.True(t, *cfg.Cache.Enabled)
	require.Equal(t, DefaultCacheCapacity, cfg.Cache.Capacity)
	require.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoadNoFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, New(), cfg)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `paths:
  data: responses.csv
defaults:
  sort_order: asc
  respondent_column: "Respondent ID"
  controls: [Age, Region]
cache:
  enabled: false
server:
  port: 8080
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".surveylens.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, "responses.csv", cfg.Paths.Data)
	require.Equal(t, DefaultQuestionsFile, cfg.Paths.Questions, "unset fields keep defaults")
	require.Equal(t, "asc", cfg.Defaults.SortOrder)
	require.Equal(t, "Respondent ID", cfg.Defaults.RespondentColumn)
	require.Equal(t, []string{"Age", "Region"}, cfg.Defaults.Controls)
	require.NotNil(t, cfg.Cache.Enabled)
	require.False(t, *cfg.Cache.Enabled)
	require.Equal(t, DefaultCacheCapacity, cfg.Cache.Capacity)
	require.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadWalksUpToParent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".surveylens.yaml"), []byte("server:\n  port: 9999\n"), 0o644))

	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Load(nested)
	require.NoError(t, err)
	require.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadNearestFileWins(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".surveylens.yaml"), []byte("server:\n  port: 1111\n"), 0o644))

	child := filepath.Join(root, "project")
	require.NoError(t, os.MkdirAll(child, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(child, ".surveylens.yaml"), []byte("server:\n  port: 2222\n"), 0o644))

	cfg, err := Load(child)
	require.NoError(t, err)
	require.Equal(t, 2222, cfg.Server.Port)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".surveylens.yaml"), []byte("paths: ["), 0o644))

	_, err := Load(dir)
	require.ErrorContains(t, err, "parsing .surveylens.yaml")
}
