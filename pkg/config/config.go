// Package config resolves mdagg settings from flags, environment variables and an
// optional YAML config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Keys shared by flags, environment variables (MDAGG_<KEY>, dashes as underscores) and
// the config file.
const (
	KeyOutput        = "output"
	KeyExcludeFile   = "exclude-file"
	KeyIgnore        = "ignore"
	KeyWorkers       = "workers"
	KeyMaxFileSizeKB = "max-file-size-kb"
	KeyTokenizer     = "tokenizer"
	KeyDiscovery     = "discovery"
	KeyTree          = "tree"
	KeyLock          = "lock"
	KeyDebug         = "debug"
	KeyVerbose       = "verbose"
	KeyLogFile       = "log-file"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "MDAGG"

// FileName is looked up in the source directory when no config file is given.
const FileName = ".mdagg.yaml"

// Discovery modes.
const (
	DiscoveryAuto = "auto" // git ls-files, falling back to a directory scan
	DiscoveryGit  = "git"  // git ls-files only; a git failure fails the run
	DiscoveryScan = "scan" // directory scan only
)

// Config holds the effective settings of one run.
type Config struct {
	SourceDir     string   `mapstructure:"-" yaml:"source"`
	OutputDir     string   `mapstructure:"output" yaml:"output"`
	ExcludeFile   string   `mapstructure:"exclude-file" yaml:"exclude-file"`
	Ignore        []string `mapstructure:"ignore" yaml:"ignore"`
	Workers       int      `mapstructure:"workers" yaml:"workers"`
	MaxFileSizeKB int      `mapstructure:"max-file-size-kb" yaml:"max-file-size-kb"`
	Tokenizer     string   `mapstructure:"tokenizer" yaml:"tokenizer"`
	Discovery     string   `mapstructure:"discovery" yaml:"discovery"`
	Tree          bool     `mapstructure:"tree" yaml:"tree"`
	Lock          bool     `mapstructure:"lock" yaml:"lock"`
	Debug         bool     `mapstructure:"debug" yaml:"debug"`
	Verbose       bool     `mapstructure:"verbose" yaml:"verbose"`
	LogFile       string   `mapstructure:"log-file" yaml:"log-file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Ignore:    []string{},
		Tokenizer: "advanced",
		Discovery: DiscoveryAuto,
		Lock:      true,
	}
}

// Setup registers defaults and environment lookups on v.
func Setup(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyOutput, d.OutputDir)
	v.SetDefault(KeyExcludeFile, d.ExcludeFile)
	v.SetDefault(KeyIgnore, d.Ignore)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyMaxFileSizeKB, d.MaxFileSizeKB)
	v.SetDefault(KeyTokenizer, d.Tokenizer)
	v.SetDefault(KeyDiscovery, d.Discovery)
	v.SetDefault(KeyTree, d.Tree)
	v.SetDefault(KeyLock, d.Lock)
	v.SetDefault(KeyDebug, d.Debug)
	v.SetDefault(KeyVerbose, d.Verbose)
	v.SetDefault(KeyLogFile, d.LogFile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// ReadFile merges a config file into v. An explicit path must exist; otherwise FileName
// in sourceDir is used when present. It returns the file that was read, or "".
func ReadFile(v *viper.Viper, fs afero.Fs, explicit, sourceDir string) (string, error) {
	v.SetFs(fs)

	path := explicit
	if path == "" {
		candidate := filepath.Join(sourceDir, FileName)
		if _, err := fs.Stat(candidate); err != nil {
			return "", nil
		}
		path = candidate
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return path, nil
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	var err error
	switch c.Tokenizer {
	case "", "advanced", "simple":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown tokenizer %q (want advanced or simple)", c.Tokenizer))
	}
	switch c.Discovery {
	case "", DiscoveryAuto, DiscoveryGit, DiscoveryScan:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown discovery mode %q (want auto, git or scan)", c.Discovery))
	}
	if c.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.MaxFileSizeKB < 0 {
		err = multierr.Append(err, fmt.Errorf("max-file-size-kb must not be negative, got %d", c.MaxFileSizeKB))
	}
	return err
}

// Resolve fills the settings derived from the source directory: an absolute source
// path, the default output directory and, when it exists, <source>/.gitignore as the
// exclude file.
func (c *Config) Resolve(fs afero.Fs, sourceDir, defaultOutputDir string) error {
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source directory %s: %w", sourceDir, err)
	}
	c.SourceDir = abs

	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(abs, defaultOutputDir)
	}
	if c.ExcludeFile == "" {
		gitignore := filepath.Join(abs, ".gitignore")
		if _, err := fs.Stat(gitignore); err == nil {
			c.ExcludeFile = gitignore
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", gitignore, err)
		}
	}
	return nil
}

// YAML renders the settings in config file form.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return out, nil
}
