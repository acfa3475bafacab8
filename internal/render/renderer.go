package render

import (
	"io"

	"git.lost.host/meutraa/eotw-stats/internal/aggregate"
	"git.lost.host/meutraa/eotw-stats/internal/score"
)

type Renderer interface {
	// Summary writes the headline numbers and the per column table
	Summary(w io.Writer, total int, a *aggregate.Analysis) error
	// Histogram writes the offset distribution as horizontal bars
	Histogram(w io.Writer, title string, h *score.Histogram) error
}
