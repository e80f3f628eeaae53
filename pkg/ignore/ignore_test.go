package ignore_test

import (
	"testing"

	"github.com/ddieppa/mdagg/pkg/ignore"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldExcludeLastMatchWins(t *testing.T) {
	t.Parallel()

	include := ignore.ParseLines("*.log", "!*.log")
	assert.False(t, include.ShouldExclude("app.log"))

	exclude := ignore.ParseLines("!*.log", "*.log")
	assert.True(t, exclude.ShouldExclude("app.log"))

	reExcluded := ignore.ParseLines("logs/", "!logs/keep.txt", "*.txt")
	assert.True(t, reExcluded.ShouldExclude("logs/keep.txt"))
	assert.True(t, reExcluded.ShouldExclude("logs/other.bin"))
}

func TestShouldExcludeGitMetadataAlways(t *testing.T) {
	t.Parallel()

	sets := map[string]ignore.PatternSet{
		"empty":     nil,
		"negation":  ignore.ParseLines("!.git", "!.git/**", "!**"),
		"unrelated": ignore.ParseLines("*.go"),
	}
	paths := []string{".git", ".git/config", ".git/objects/ab/cdef", "sub/.git/HEAD", "/.git/index", `.git\refs\heads\main`}

	for name, ps := range sets {
		for _, p := range paths {
			assert.True(t, ps.ShouldExclude(p), "%s: %s", name, p)
		}
	}

	assert.False(t, ignore.PatternSet(nil).ShouldExclude(".gitignore"))
	assert.False(t, ignore.PatternSet(nil).ShouldExclude("src/.github/workflows/ci.yml"))
}

func TestShouldExcludeEmptySet(t *testing.T) {
	t.Parallel()

	var ps ignore.PatternSet
	assert.False(t, ps.ShouldExclude("src/main.go"))
	assert.False(t, ps.ShouldExclude("bin/app"))
}

func TestShouldExcludeComplexSet(t *testing.T) {
	t.Parallel()

	ps := ignore.ParseLines(
		"*.swp",
		"*.bak",
		"*~",
		".vs/",
		"bin/",
		"obj/",
		"/packages/",
		"!important.txt",
		".vscode/*",
		"!.vscode/settings.json",
		"!.vscode/tasks.json",
		"!.vscode/launch.json",
		"!.vscode/extensions.json",
		"!.vscode/*.code-snippets",
		".history/",
		"*.vsix",
		".idea/**/workspace.xml",
		".idea/**/tasks.xml",
		".idea/**/usage.statistics.xml",
		".idea/**/dictionaries",
		".idea/**/shelf",
		"cmake-build-*/",
		"*.iws",
		"out/",
		".idea_modules/",
		"atlassian-ide-plugin.xml",
		".idea/replstate.xml",
		".idea/sonarlint/",
		"crashlytics.properties",
		".idea/httpRequests/",
	)

	excluded := []string{
		"file.swp",
		"backup.bak",
		"temp~",
		".vs/settings.json",
		"project/bin/debug/app.exe",
		"project/obj/release/app.pdb",
		"packages/newtonsoft.json/lib/net45/Newtonsoft.Json.dll",
		".history/some_file",
		"my_extension.vsix",
		".idea/workspace.xml",
		"project/.idea/tasks.xml",
		".idea/usage.statistics.xml",
		".idea/dictionaries/my_dict",
		".idea/shelf/something",
		"cmake-build-debug/",
		"project.iws",
		"out/production/myproject",
		".idea_modules/mymodule",
		"atlassian-ide-plugin.xml",
		".idea/replstate.xml",
		".idea/sonarlint/someconfig",
		"crashlytics.properties",
		".idea/httpRequests/",
		".vscode/random.json",
	}
	included := []string{
		"src/important.txt",
		"src/file.cs",
		".vscode/settings.json",
		".vscode/tasks.json",
		".vscode/launch.json",
		".vscode/extensions.json",
		".vscode/my-snippet.code-snippets",
		"lib/packages/readme.md",
	}

	for _, p := range excluded {
		assert.True(t, ps.ShouldExclude(p), p)
	}
	for _, p := range included {
		assert.False(t, ps.ShouldExclude(p), p)
	}
}

func TestMatchesPathWithPatternReturnsDecidingPattern(t *testing.T) {
	t.Parallel()

	ps := ignore.ParseLines("*.log", "!keep.log")

	excluded, p := ps.MatchesPathWithPattern("logs/keep.log")
	assert.False(t, excluded)
	require.NotNil(t, p)
	assert.Equal(t, "!keep.log", p.Raw)

	excluded, p = ps.MatchesPathWithPattern("src/main.go")
	assert.False(t, excluded)
	assert.Nil(t, p)
}

func TestParseLinesSkipsBlanksAndComments(t *testing.T) {
	t.Parallel()

	ps := ignore.ParseLines(
		"# comment",
		"bin/",
		"",
		"   ",
		"obj/\r",
		"  /packages/  ",
		"   # indented comment",
		"riderModule.iml",
	)

	raw := make([]string, 0, len(ps))
	for _, p := range ps {
		raw = append(raw, p.Raw)
	}
	assert.Equal(t, []string{"bin/", "obj/", "/packages/", "riderModule.iml"}, raw)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/.gitignore", []byte("# build output\nbin/\n\n*.log\n!keep.log\n"), 0o644))

	rules := ignore.Load(fs, "/repo/.gitignore", nil)
	require.Len(t, rules.Patterns(), 3)
	assert.True(t, rules.ShouldExclude("bin/app"))
	assert.True(t, rules.ShouldExclude("debug.log"))
	assert.False(t, rules.ShouldExclude("keep.log"))
	assert.False(t, rules.ShouldExclude("main.go"))
}

func TestLoadMissingOrEmptyPath(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()

	for _, path := range []string{"", "/does/not/exist"} {
		rules := ignore.Load(fs, path, nil)
		assert.Empty(t, rules.Patterns(), path)
		assert.True(t, rules.ShouldExclude(".git/HEAD"), path)
		assert.False(t, rules.ShouldExclude("main.go"), path)
	}
}

func TestRulesWithAppendsAfterFilePatterns(t *testing.T) {
	t.Parallel()

	base := ignore.NewRules(ignore.ParseLines("*.txt"), nil)
	extended := base.With("!notes.txt", "", "# comment")

	assert.Len(t, base.Patterns(), 1)
	assert.Len(t, extended.Patterns(), 2)
	assert.True(t, base.ShouldExclude("notes.txt"))
	assert.False(t, extended.ShouldExclude("notes.txt"))
	assert.Same(t, base, base.With())
}
