package cmd

import (
	"fmt"
	"io"

	"github.com/ddieppa/mdagg/pkg/combine"
	"github.com/ddieppa/mdagg/pkg/config"
	"github.com/ddieppa/mdagg/pkg/discovery"
	"github.com/ddieppa/mdagg/pkg/output"
	"github.com/ddieppa/mdagg/pkg/tokens"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *app) newAggregateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "aggregate [dir]",
		Aliases: []string{"agg"},
		Short:   "Write a Markdown report of the files in dir (default .)",
		Example: `  mdagg aggregate
  mdagg aggregate ./service --ignore '*.md' --ignore 'testdata/'
  mdagg aggregate . --output /tmp/reports --tree --workers 8`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return a.runAggregate(cmd, dir)
		},
	}

	f := cmd.Flags()
	f.StringP(config.KeyOutput, "o", "", "directory for reports (default <dir>/"+combine.DefaultOutputDirName+")")
	f.StringP(config.KeyExcludeFile, "e", "", "gitignore-style exclude file (default <dir>/.gitignore when present)")
	f.StringSliceP(config.KeyIgnore, "i", nil, "additional ignore pattern, applied after the exclude file (repeatable)")
	f.IntP(config.KeyWorkers, "w", 0, "number of concurrent workers (default: number of CPUs)")
	f.Int(config.KeyMaxFileSizeKB, 0, "skip files larger than this many KB (0 disables the limit)")
	f.String(config.KeyTokenizer, "advanced", "token counter: advanced or simple")
	f.String(config.KeyDiscovery, config.DiscoveryAuto, "file discovery: auto, git or scan")
	f.Bool(config.KeyTree, false, "also write the directory tree of the aggregated files")
	f.Bool(config.KeyLock, true, "guard the report with a lock file while writing")
	a.bindFlags(f,
		config.KeyOutput, config.KeyExcludeFile, config.KeyIgnore, config.KeyWorkers,
		config.KeyMaxFileSizeKB, config.KeyTokenizer, config.KeyDiscovery, config.KeyTree, config.KeyLock)
	return cmd
}

func (a *app) runAggregate(cmd *cobra.Command, dir string) error {
	cfg, err := a.loadConfig(dir)
	if err != nil {
		return err
	}

	counter, err := tokens.New(cfg.Tokenizer)
	if err != nil {
		return err
	}
	opts := []combine.Option{combine.WithCounter(counter)}
	switch cfg.Discovery {
	case config.DiscoveryGit:
		opts = append(opts, combine.WithStrictTrackedSource(discovery.NewGitSource(a.logger)))
	case config.DiscoveryScan:
	default:
		opts = append(opts, combine.WithTrackedSource(discovery.NewGitSource(a.logger)))
	}
	agg := combine.New(a.fs, a.logger, opts...)

	_, osBacked := a.fs.(*afero.OsFs)
	w := output.NewWriter(a.fs, cfg.Lock && osBacked, a.logger)

	out := cmd.OutOrStdout()
	runOpts := combine.Options{
		SourceDir:      cfg.SourceDir,
		OutputDir:      cfg.OutputDir,
		ExcludeFile:    cfg.ExcludeFile,
		IgnorePatterns: cfg.Ignore,
		Workers:        cfg.Workers,
		MaxFileSizeKB:  cfg.MaxFileSizeKB,
	}
	var bar *progressBar
	if a.isTTY() {
		bar = newProgressBar(out, 30, !color.NoColor)
		runOpts.OnProgress = bar.Update
	}

	rep, err := agg.Execute(cmd.Context(), w, runOpts, cfg.Tree, a.now())
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	if ferr := rep.Err(); ferr != nil {
		a.logger.Warn("Some files could not be read", zap.Error(ferr))
	}
	printSummary(out, rep)
	return nil
}

func printSummary(out io.Writer, rep *combine.Report) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	fmt.Fprintln(out, bold.Sprint("=== Aggregation Summary ==="))
	fmt.Fprintf(out, "Files found:     %d\n", rep.FilesFound)
	fmt.Fprintf(out, "Files processed: %s\n", green.Sprint(rep.FileCount))
	fmt.Fprintf(out, "Total tokens:    %d\n", rep.TokenCount)
	if len(rep.Skipped) > 0 {
		fmt.Fprintf(out, "Empty, skipped:  %s\n", yellow.Sprint(len(rep.Skipped)))
	}
	if len(rep.Failed) > 0 {
		fmt.Fprintf(out, "Failed:          %s\n", red.Sprint(len(rep.Failed)))
		for _, f := range rep.Failed {
			fmt.Fprintf(out, "  - %s: %v\n", red.Sprint(f.RelPath), f.Err)
		}
	}
	fmt.Fprintf(out, "Report: %s\n", rep.ReportPath)
	if rep.TreePath != "" {
		fmt.Fprintf(out, "Tree:   %s\n", rep.TreePath)
	}
}
