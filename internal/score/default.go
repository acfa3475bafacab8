package score

import (
	"io"
	"os"
	"sort"

	"git.lost.host/meutraa/eotw-stats/internal/game"
	"git.lost.host/meutraa/eotw-stats/internal/replay"
	"git.lost.host/meutraa/eotw-stats/internal/timing"
	"github.com/pkg/errors"
)

type DefaultScorer struct{}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func (s *DefaultScorer) AnalyzeFile(path string, wifescore, rate float64, ti timing.Info) (*Analysis, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, errors.Wrap(err, "unable to open replay")
	}
	defer f.Close()
	return s.Analyze(f, wifescore, rate, ti)
}

func (s *DefaultScorer) Analyze(r io.Reader, wifescore, rate float64, ti timing.Info) (*Analysis, error) {
	var score Analysis

	var prevTick, mcombo, numNotes, numManipped uint64
	deviationSum := 0.0
	ticks := []uint64{}
	areCBs := []bool{}

	events := replay.NewReader(r)
	for events.Next() {
		e := events.Event()
		numNotes++
		ticks = append(ticks, e.Tick)

		if e.Tick < prevTick {
			numManipped++
		}
		prevTick = e.Tick

		isCB := abs(e.Deviation) > game.ComboBreakWindow
		if !isCB {
			deviationSum += e.Deviation
			score.NumDeviationNotes++
		}
		areCBs = append(areCBs, isCB)

		if e.Column < game.NumColumns {
			score.NotesPerColumn[e.Column]++
			if isCB {
				score.CBsPerColumn[e.Column]++
			}
		}

		if abs(e.Deviation) <= game.MarvelousWindow {
			mcombo++
		} else {
			if mcombo > score.LongestMCombo {
				score.LongestMCombo = mcombo
			}
			mcombo = 0
		}

		if b, ok := Bucket(e.Deviation); ok {
			score.OffsetBuckets[b]++
			if wifescore < game.Sub93Wifescore {
				score.Sub93OffsetBuckets[b]++
			}
		}
	}
	if err := events.Err(); nil != err {
		return nil, errors.Wrap(err, "unable to read replay")
	}
	// The streak running at the end of the replay counts too
	if mcombo > score.LongestMCombo {
		score.LongestMCombo = mcombo
	}

	score.DeviationMean = deviationSum / float64(score.NumDeviationNotes)
	score.Manipulation = float64(numManipped) / float64(numNotes)

	// The conversion needs sorted ticks, the combo breaks stay in hit order.
	// With manipulated ticks the two no longer line up.
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })
	seconds := ti.TicksToSeconds(ticks)
	score.FastestCombo = fastestCombo(seconds, areCBs, rate)

	return &score, nil
}

// fastestCombo finds the run of non combo breaking hits with the highest
// notes per second, at the given playback rate.
func fastestCombo(seconds []float64, areCBs []bool, rate float64) Combo {
	var fastest Combo
	n := len(seconds)
	if len(areCBs) < n {
		n = len(areCBs)
	}
	for start := 0; start < n; {
		end := start
		for end < n && areCBs[end] == areCBs[start] {
			end++
		}
		count := uint64(end - start)
		first, last := seconds[start], seconds[end-1]
		isCB := areCBs[start]
		start = end

		if isCB || count < 2 || count < game.MinFastestComboLength {
			continue
		}
		duration := (last - first) / rate
		if duration <= 0 {
			continue
		}
		// Two taps a second apart are one note per second, not two
		notes := count - 1
		nps := float64(notes) / duration
		if nps > fastest.NPS {
			fastest = Combo{Length: notes, NPS: nps}
		}
	}
	return fastest
}
