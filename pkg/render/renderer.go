package render

import (
	"context"

	"github.com/webtrix/go-leadform/pkg/formdef"
	"github.com/webtrix/go-leadform/pkg/tree"
)

// Renderer converts a built form tree into a byte representation (HTML, a
// terminal transcript, etc.). The definition rides along for chrome the tree
// does not carry: theme, description, submit label.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form *tree.Tree, def *formdef.FormDefinition, options Options) ([]byte, error)
}
