package explain

import (
	"context"
	"log/slog"
	"strings"

	"github.com/roach88/whatif/internal/reasons"
	"github.com/roach88/whatif/internal/whatif"
)

// Narrator generates free text from a prompt.
type Narrator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Explainer explains results, preferring a narrator for infeasible ones.
type Explainer struct {
	narrator Narrator
	logger   *slog.Logger
}

// NewExplainer creates an explainer. A nil narrator always renders offline.
func NewExplainer(n Narrator, logger *slog.Logger) *Explainer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Explainer{narrator: n, logger: logger}
}

// Explain returns the narrator's text for an infeasible result, and
// Render's text for everything else or when the narrator cannot help.
// The graph may be nil.
func (e *Explainer) Explain(ctx context.Context, res *whatif.Result, queryDescription string, graph *reasons.Graph) string {
	if e == nil || e.narrator == nil || !res.Infeasible() {
		return Render(res, queryDescription)
	}
	if graph == nil {
		graph = reasons.Build(res.IIS, queryDescription)
	}

	text, err := e.narrator.GenerateText(ctx, BuildPrompt(res, queryDescription, graph))
	if err != nil {
		e.logger.Warn("narrator failed, using offline explanation", "error", err)
		return Render(res, queryDescription)
	}
	if strings.TrimSpace(text) == "" {
		e.logger.Warn("narrator returned empty text, using offline explanation")
		return Render(res, queryDescription)
	}
	return strings.TrimSpace(text)
}
