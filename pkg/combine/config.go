package combine

// ProgressFunc receives the base name of the file just finished and the fraction of
// candidates completed so far, in (0, 1].
type ProgressFunc func(name string, fraction float64)

// Options holds the settings for a single aggregation run.
type Options struct {
	SourceDir      string       // Directory to aggregate.
	OutputDir      string       // Reports live here; files below it are never aggregated.
	ExcludeFile    string       // Gitignore-style pattern file; empty means none.
	IgnorePatterns []string     // Extra patterns applied after the exclude file.
	Workers        int          // Concurrent workers; zero or less means runtime.NumCPU().
	MaxFileSizeKB  int          // Files above this size are skipped; zero disables the limit.
	OnProgress     ProgressFunc // Optional; called once per candidate.
}
