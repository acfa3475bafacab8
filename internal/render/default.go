package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"git.lost.host/meutraa/eotw-stats/internal/aggregate"
	"git.lost.host/meutraa/eotw-stats/internal/game"
	"git.lost.host/meutraa/eotw-stats/internal/score"
	"git.lost.host/meutraa/eotw-stats/internal/theme"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	defaultBin   = 5 // ms per histogram row
)

type DefaultRenderer struct {
	Theme theme.Theme
	// Columns available, the terminal width when 0
	Width int
	// Milliseconds per histogram row
	Bin int

	buffer strings.Builder
}

func (r *DefaultRenderer) theme() theme.Theme {
	if nil == r.Theme {
		return &theme.DefaultTheme{}
	}
	return r.Theme
}

func (r *DefaultRenderer) width() int {
	if r.Width > 0 {
		return r.Width
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); nil == err && w > 0 {
			return w
		}
	}
	return defaultWidth
}

func (r *DefaultRenderer) line(label, value string) {
	r.buffer.WriteString(r.theme().Label().Render(padCell(label, 26, false)))
	r.buffer.WriteString(value)
	r.buffer.WriteString("\n")
}

func (r *DefaultRenderer) Summary(w io.Writer, total int, a *aggregate.Analysis) error {
	th := r.theme()
	r.buffer.WriteString(th.Heading().Render("Summary"))
	r.buffer.WriteString("\n")

	r.line("Scores analyzed", fmt.Sprintf("%v / %v", len(a.ScoreIndices), total))
	r.line("Mean deviation", fmt.Sprintf("%.2f ms", a.DeviationMean*1000))
	r.line("Standard deviation", fmt.Sprintf("%.2f ms", a.StandardDeviation))
	r.line("Mean manipulation", fmt.Sprintf("%.2f%%", mean(a.Manipulations)*100))
	r.line("Longest marvelous combo", keyed(fmt.Sprintf("%v", a.LongestMCombo.Count), a.LongestMCombo.Scorekey))
	r.line("Fastest combo", keyed(
		fmt.Sprintf("%.2f nps over %v notes", a.FastestCombo.NPS, a.FastestCombo.Length),
		a.FastestCombo.Scorekey,
	))
	r.buffer.WriteString("\n")

	rows := make([][]string, 0, game.NumColumns)
	for c := 0; c < game.NumColumns; c++ {
		rate := 0.0
		if a.NotesPerColumn[c] > 0 {
			rate = float64(a.CBsPerColumn[c]) / float64(a.NotesPerColumn[c])
		}
		rows = append(rows, []string{
			fmt.Sprintf("%v", c+1),
			fmt.Sprintf("%v", a.NotesPerColumn[c]),
			fmt.Sprintf("%v", a.CBsPerColumn[c]),
			fmt.Sprintf("%.3f%%", rate*100),
		})
	}
	for i, l := range formatTable([]string{"Column", "Notes", "CBs", "CB rate"}, rows) {
		if i == 0 {
			l = th.Label().Render(l)
		}
		r.buffer.WriteString(l)
		r.buffer.WriteString("\n")
	}

	return r.flush(w)
}

func (r *DefaultRenderer) Histogram(w io.Writer, title string, h *score.Histogram) error {
	th := r.theme()
	r.buffer.WriteString(th.Heading().Render(title))
	r.buffer.WriteString("\n")

	bin := r.Bin
	if bin <= 0 {
		bin = defaultBin
	}
	bins := binHistogram(h, bin)

	var most uint64
	first, last := -1, -1
	for i, b := range bins {
		if b.count == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		if b.count > most {
			most = b.count
		}
	}
	if first < 0 {
		r.buffer.WriteString("no hits\n")
		return r.flush(w)
	}

	// "-180ms " label, bar, " 123456" count
	barWidth := r.width() - 7 - 8
	if barWidth < 10 {
		barWidth = 10
	}
	for _, b := range bins[first : last+1] {
		n := int(b.count * uint64(barWidth) / most)
		bar := th.Judgement(game.Judge(float64(b.center) / 1000)).Render(strings.Repeat("█", n))
		r.buffer.WriteString(fmt.Sprintf("%5vms %v%v %v\n", b.low, bar, strings.Repeat(" ", barWidth-n), b.count))
	}
	return r.flush(w)
}

type bucketBin struct {
	low, center int
	count       uint64
}

// binHistogram sums bin milliseconds at a time, starting from -180ms.
func binHistogram(h *score.Histogram, bin int) []bucketBin {
	bins := []bucketBin{}
	for start := 0; start < len(h); start += bin {
		end := start + bin
		if end > len(h) {
			end = len(h)
		}
		b := bucketBin{
			low:    start - game.OffsetBucketRange,
			center: (start+end-1)/2 - game.OffsetBucketRange,
		}
		for _, c := range h[start:end] {
			b.count += c
		}
		bins = append(bins, b)
	}
	return bins
}

func (r *DefaultRenderer) flush(w io.Writer) error {
	_, err := io.WriteString(w, r.buffer.String())
	r.buffer.Reset()
	return err
}

func keyed(value, key string) string {
	if key == "" {
		return value
	}
	return fmt.Sprintf("%v (%v)", value, key)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func formatTable(headers []string, rows [][]string) []string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				if cw := runewidth.StringWidth(cell); cw > widths[i] {
					widths[i] = cw
				}
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for _, row := range append([][]string{headers}, rows...) {
		cells := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = padCell(cell, widths[i], i > 0)
		}
		lines = append(lines, strings.Join(cells, "  "))
	}
	return lines
}

func padCell(value string, width int, rightAlign bool) string {
	w := runewidth.StringWidth(value)
	if w >= width {
		return value
	}
	padding := strings.Repeat(" ", width-w)
	if rightAlign {
		return padding + value
	}
	return value + padding
}
