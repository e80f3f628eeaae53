package cmd

import (
	"fmt"
	"strings"

	"github.com/ddieppa/mdagg/pkg/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func (a *app) newInspectCmd() *cobra.Command {
	var show string
	cmd := &cobra.Command{
		Use:   "inspect <report.md>",
		Short: "List the sections of a generated report",
		Long: `Inspect parses a report written by "mdagg aggregate" and lists its files with
their language and line count. Use --show to print the content of one file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.fs.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open report: %w", err)
			}
			defer f.Close()

			rep, err := report.NewParser().Parse(f)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if show != "" {
				for _, sec := range rep.Sections {
					if sec.Path == show {
						if sec.Error != "" {
							return fmt.Errorf("%s was not readable when the report was generated: %s", show, sec.Error)
						}
						fmt.Fprintln(out, sec.Content)
						return nil
					}
				}
				return fmt.Errorf("no section for %s in %s", show, args[0])
			}

			bold := color.New(color.Bold)
			red := color.New(color.FgRed)
			fmt.Fprintf(out, "%s %s\n", bold.Sprint("Source:"), rep.SourceDir)
			fmt.Fprintf(out, "%s %d found, %d processed, %d tokens\n",
				bold.Sprint("Files:"), rep.FilesFound, rep.FilesProcessed, rep.Tokens)
			for _, sec := range rep.Sections {
				if sec.Error != "" {
					fmt.Fprintf(out, "  %s  %s\n", sec.Path, red.Sprint("error: "+sec.Error))
					continue
				}
				lang := sec.Language
				if lang == "" {
					lang = "-"
				}
				fmt.Fprintf(out, "  %s  [%s]  %d lines\n", sec.Path, lang, strings.Count(sec.Content, "\n")+1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&show, "show", "", "print the content of the file with this relative path")
	return cmd
}
