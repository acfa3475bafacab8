package score

import (
	"io"
	"math"

	"git.lost.host/meutraa/eotw-stats/internal/game"
	"git.lost.host/meutraa/eotw-stats/internal/timing"
)

type Scorer interface {
	// Analyze reduces one replay to its statistics
	Analyze(r io.Reader, wifescore, rate float64, ti timing.Info) (*Analysis, error)

	AnalyzeFile(path string, wifescore, rate float64, ti timing.Info) (*Analysis, error)
}

// Histogram counts hits per millisecond of offset. Index i is the offset
// i-180ms.
type Histogram [game.NumOffsetBuckets]uint64

// Bucket returns the histogram index for a deviation in seconds.
func Bucket(deviation float64) (int, bool) {
	ms := math.Round(deviation * 1000)
	if ms < -game.OffsetBucketRange || ms > game.OffsetBucketRange {
		return 0, false
	}
	b := int64(ms) + game.OffsetBucketRange
	if b < 0 || b >= game.NumOffsetBuckets {
		return 0, false
	}
	return int(b), true
}

func (h *Histogram) Add(o *Histogram) {
	for i := range h {
		h[i] += o[i]
	}
}

type Combo struct {
	Length uint64
	NPS    float64
}

type Analysis struct {
	// Share of notes hit with a tick earlier than the note before, 0 to 1
	Manipulation float64
	// Mean deviation of the non combo breaking hits, in seconds
	DeviationMean     float64
	NumDeviationNotes uint64

	// Notes in columns past the fourth count towards the totals only
	NotesPerColumn [game.NumColumns]uint64
	CBsPerColumn   [game.NumColumns]uint64

	// Longest run of marvelous hits
	LongestMCombo uint64

	OffsetBuckets      Histogram
	Sub93OffsetBuckets Histogram

	FastestCombo Combo
}
