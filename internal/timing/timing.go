// Package timing places replay ticks in real time and indexes songs by the
// pack and title the savegame uses for them.
package timing

import (
	"sort"

	"git.lost.host/meutraa/eotw-stats/internal/game"
	"github.com/pkg/errors"
)

// Info converts chart ticks to seconds.
type Info interface {
	// TicksToSeconds maps a non-decreasing tick sequence to a
	// non-decreasing sequence of seconds of the same length.
	TicksToSeconds(ticks []uint64) []float64
}

// Lookup finds the timing info of a song.
type Lookup interface {
	Get(id game.SongID) (Info, bool)
}

type segment struct {
	beat, second, secondsPerBeat float64
}

// BPMInfo is an Info built from a chart offset and its BPM changes.
type BPMInfo struct {
	segments []segment
}

// NewInfo builds the segment table. Beat 0 sits at -offset seconds.
func NewInfo(offset float64, bpms []game.BPM) (*BPMInfo, error) {
	if len(bpms) == 0 {
		return nil, errors.New("no bpms")
	}
	sorted := make([]game.BPM, len(bpms))
	copy(sorted, bpms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartingBeat < sorted[j].StartingBeat
	})

	segments := make([]segment, 0, len(sorted))
	second := -offset
	for i, bpm := range sorted {
		if bpm.Value <= 0 {
			return nil, errors.Errorf("bpm %v at beat %v", bpm.Value, bpm.StartingBeat)
		}
		beat := bpm.StartingBeat
		if i == 0 {
			// The first bpm applies from the start of the chart
			beat = 0
		} else {
			prev := segments[len(segments)-1]
			second = prev.second + (beat-prev.beat)*prev.secondsPerBeat
		}
		// A later change at the same beat replaces the earlier one
		if n := len(segments); n > 0 && segments[n-1].beat == beat {
			segments = segments[:n-1]
		}
		segments = append(segments, segment{
			beat:           beat,
			second:         second,
			secondsPerBeat: 60.0 / bpm.Value,
		})
	}
	return &BPMInfo{segments: segments}, nil
}

func (t *BPMInfo) TicksToSeconds(ticks []uint64) []float64 {
	seconds := make([]float64, len(ticks))
	for i, tick := range ticks {
		seconds[i] = t.secondsAt(float64(tick) / game.TicksPerBeat)
	}
	return seconds
}

func (t *BPMInfo) secondsAt(beat float64) float64 {
	i := sort.Search(len(t.segments), func(i int) bool {
		return t.segments[i].beat > beat
	}) - 1
	if i < 0 {
		i = 0
	}
	s := t.segments[i]
	return s.second + (beat-s.beat)*s.secondsPerBeat
}

// Index is a Lookup over an in-memory map.
type Index map[game.SongID]Info

func (idx Index) Get(id game.SongID) (Info, bool) {
	info, ok := idx[id]
	return info, ok
}
