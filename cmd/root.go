package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ddieppa/mdagg/pkg/combine"
	"github.com/ddieppa/mdagg/pkg/config"
	"github.com/ddieppa/mdagg/pkg/logging"
	"github.com/ddieppa/mdagg/pkg/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const appName = "mdagg"

// app carries the state shared by the subcommands of one invocation.
type app struct {
	fs      afero.Fs
	v       *viper.Viper
	logger  *zap.Logger
	cfgFile string
	now     func() time.Time
	isTTY   func() bool
}

// NewRootCmd builds the mdagg command tree over fs.
func NewRootCmd(fs afero.Fs, logger *zap.Logger) *cobra.Command {
	return newApp(fs, logger).rootCmd()
}

func newApp(fs afero.Fs, logger *zap.Logger) *app {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &app{
		fs:     fs,
		v:      viper.New(),
		logger: logger,
		now:    time.Now,
		isTTY:  func() bool { return term.IsTerminal(int(os.Stdout.Fd())) },
	}
	config.Setup(a.v)
	return a
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Aggregate a source tree into a single Markdown report",
		Long: `mdagg collects the tracked files of a source directory, strips blank lines
and writes them into one Markdown document with a fenced code block per file,
ready to be pasted into an LLM prompt or attached to a review.

Files are taken from git ls-files when the directory is inside a repository and
from a directory scan otherwise. Gitignore-style patterns from an exclude file
(default <dir>/.gitignore) and from --ignore filter the result.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default <dir>/"+config.FileName+")")
	pf.Bool(config.KeyDebug, false, "enable debug logging")
	pf.BoolP(config.KeyVerbose, "v", false, "log progress information")
	pf.String(config.KeyLogFile, "", "also write logs to this file")
	a.bindFlags(pf, config.KeyDebug, config.KeyVerbose, config.KeyLogFile)

	root.AddCommand(
		a.newAggregateCmd(),
		a.newInspectCmd(),
		a.newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line with the given logger.
func Execute(ctx context.Context, logger *zap.Logger) error {
	return NewRootCmd(afero.NewOsFs(), logger).ExecuteContext(ctx)
}

func (a *app) bindFlags(flags *pflag.FlagSet, keys ...string) {
	for _, key := range keys {
		if err := a.v.BindPFlag(key, flags.Lookup(key)); err != nil {
			a.logger.Warn("Failed to bind flag", zap.String("flag", key), zap.Error(err))
		}
	}
}

// loadConfig resolves the settings for sourceDir and rebuilds the logger when they
// ask for debug output, info output or a log file.
func (a *app) loadConfig(sourceDir string) (config.Config, error) {
	used, err := config.ReadFile(a.v, a.fs, a.cfgFile, sourceDir)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Resolve(a.fs, sourceDir, combine.DefaultOutputDirName); err != nil {
		return config.Config{}, err
	}

	if cfg.Debug || cfg.Verbose || cfg.LogFile != "" {
		logger, err := logging.Setup(logging.Options{
			Debug:      cfg.Debug,
			Verbose:    cfg.Verbose,
			LogFile:    cfg.LogFile,
			AppName:    appName,
			AppVersion: version.Get().Version,
		})
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to set up logging: %w", err)
		}
		a.logger = logger
	}

	if used != "" {
		a.logger.Debug("Loaded config file", zap.String("file", used))
	}
	return cfg, nil
}
