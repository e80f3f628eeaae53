package config_test

import (
	"testing"

	"github.com/ddieppa/mdagg/pkg/config"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newViper() *viper.Viper {
	v := viper.New()
	config.Setup(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/.mdagg.yaml", []byte(
		"workers: 3\ntokenizer: simple\nignore:\n  - '*.md'\n  - vendor/\ntree: true\n"), 0o644))

	v := newViper()
	used, err := config.ReadFile(v, fs, "", "/proj")
	require.NoError(t, err)
	assert.Equal(t, "/proj/.mdagg.yaml", used)

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "simple", cfg.Tokenizer)
	assert.Equal(t, []string{"*.md", "vendor/"}, cfg.Ignore)
	assert.True(t, cfg.Tree)
	assert.True(t, cfg.Lock)
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	used, err := config.ReadFile(newViper(), fs, "", "/proj")
	require.NoError(t, err)
	assert.Empty(t, used)

	_, err = config.ReadFile(newViper(), fs, "/etc/mdagg.yaml", "/proj")
	assert.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("MDAGG_WORKERS", "7")
	t.Setenv("MDAGG_MAX_FILE_SIZE_KB", "64")
	t.Setenv("MDAGG_DISCOVERY", "scan")

	cfg, err := config.Load(newViper())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 64, cfg.MaxFileSizeKB)
	assert.Equal(t, config.DiscoveryScan, cfg.Discovery)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "default", mutate: func(*config.Config) {}},
		{name: "tokenizer", mutate: func(c *config.Config) { c.Tokenizer = "bpe" }, wantErr: "unknown tokenizer"},
		{name: "discovery", mutate: func(c *config.Config) { c.Discovery = "svn" }, wantErr: "unknown discovery mode"},
		{name: "workers", mutate: func(c *config.Config) { c.Workers = -1 }, wantErr: "workers must not be negative"},
		{name: "size", mutate: func(c *config.Config) { c.MaxFileSizeKB = -5 }, wantErr: "max-file-size-kb"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/with/.gitignore", []byte("*.log\n"), 0o644))
	require.NoError(t, fs.MkdirAll("/without", 0o755))

	cfg := config.Default()
	require.NoError(t, cfg.Resolve(fs, "/with", "aggregated-code"))
	assert.Equal(t, "/with", cfg.SourceDir)
	assert.Equal(t, "/with/aggregated-code", cfg.OutputDir)
	assert.Equal(t, "/with/.gitignore", cfg.ExcludeFile)

	cfg = config.Default()
	require.NoError(t, cfg.Resolve(fs, "/without", "aggregated-code"))
	assert.Empty(t, cfg.ExcludeFile)

	cfg = config.Default()
	cfg.OutputDir = "/reports"
	cfg.ExcludeFile = "/custom.ignore"
	require.NoError(t, cfg.Resolve(fs, "/with", "aggregated-code"))
	assert.Equal(t, "/reports", cfg.OutputDir)
	assert.Equal(t, "/custom.ignore", cfg.ExcludeFile)
}

func TestYAML(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.SourceDir = "/proj"
	cfg.Ignore = []string{"*.tmp"}

	out, err := cfg.YAML()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Equal(t, "/proj", decoded["source"])
	assert.Equal(t, "advanced", decoded["tokenizer"])
	assert.Equal(t, []any{"*.tmp"}, decoded["ignore"])
	assert.Equal(t, true, decoded["lock"])
}
