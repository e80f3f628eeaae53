package combine_test

import (
	"testing"

	"github.com/ddieppa/mdagg/pkg/combine"
	"github.com/stretchr/testify/assert"
)

func TestRenderTree(t *testing.T) {
	t.Parallel()

	got := combine.RenderTree("proj", []string{
		"src/main.go",
		"README.md",
		"src/util/a.go",
		"go.mod",
	})

	want := "proj/\n" +
		"├── src/\n" +
		"│   ├── util/\n" +
		"│   │   └── a.go\n" +
		"│   └── main.go\n" +
		"├── go.mod\n" +
		"└── README.md\n"
	assert.Equal(t, want, got)
}

func TestRenderTreeEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "proj/\n", combine.RenderTree("proj/", nil))
}
