package game

import "fmt"

// Note rows per beat in replay ticks
const TicksPerBeat = 48

type BPM struct {
	StartingBeat float64
	Value        float64
}

// SongID identifies a song the way the savegame does.
type SongID struct {
	Pack string
	Song string
}

func (s SongID) String() string {
	return fmt.Sprintf("%v/%v", s.Pack, s.Song)
}

// SongTiming is the part of a chart file needed to place ticks in time.
type SongTiming struct {
	Title  string
	Offset float64 // seconds, as written in the chart
	BPMs   []BPM
}
