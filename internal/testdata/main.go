// Package testdata builds replay, chart and savegame fixtures for tests.
package testdata

import (
	"fmt"
	"strings"
)

type Hit struct {
	Tick      uint64
	Deviation float64
	Column    int
}

// Replay renders hits in the replay line format, after a header line.
func Replay(hits []Hit) []byte {
	var b strings.Builder
	b.WriteString("H 0123456789abcdef 1.0\n")
	for _, h := range hits {
		fmt.Fprintf(&b, "%d %v %d 0\n", h.Tick, h.Deviation, h.Column)
	}
	return []byte(b.String())
}

// Stream is n hits, one every step ticks from tick, cycling the columns.
func Stream(n int, tick, step uint64, deviation float64) []Hit {
	hits := make([]Hit, n)
	for i := range hits {
		hits[i] = Hit{
			Tick:      tick + uint64(i)*step,
			Deviation: deviation,
			Column:    i % 4,
		}
	}
	return hits
}

// Chart is a minimal .sm file with a song header and one empty chart.
func Chart(title string, offset float64, bpms string) []byte {
	return []byte(fmt.Sprintf(`#TITLE:%v;
#ARTIST:test;
#OFFSET:%.3f;
#BPMS:%v;
#STOPS:;

//---------------dance-single - ----------------
#NOTES:
     dance-single:
     :
     Challenge:
     20:
     0,0,0,0,0:
0000
0000
0000
0000
;
`, title, offset, bpms))
}

type SavegameScore struct {
	Key       string
	Wifescore float64
}

type SavegameChart struct {
	Pack, Song string
	Rate       float64
	Scores     []SavegameScore
}

// Savegame renders an Etterna.xml holding the given charts.
func Savegame(charts []SavegameChart) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<Stats>
<GeneralData><DisplayName>test</DisplayName></GeneralData>
<PlayerScores>
`)
	for i, c := range charts {
		fmt.Fprintf(&b, "<Chart Key=\"X%04d\" Pack=\"%v\" Song=\"%v\" Steps=\"Challenge\">\n", i, c.Pack, c.Song)
		fmt.Fprintf(&b, "<ScoresAt Grade=\"Tier07\" Key=\"X%04d\" PBKey=\"\" Rate=\"%.3f\">\n", i, c.Rate)
		for _, s := range c.Scores {
			fmt.Fprintf(&b, "<Score Key=\"%v\">\n<SSRNormPercent>%.6f</SSRNormPercent>\n<WifeScore>%.6f</WifeScore>\n</Score>\n",
				s.Key, s.Wifescore, s.Wifescore)
		}
		b.WriteString("</ScoresAt>\n</Chart>\n")
	}
	b.WriteString("</PlayerScores>\n</Stats>\n")
	return []byte(b.String())
}

// Linear maps a tick to SecondsPerTick times itself.
type Linear struct {
	SecondsPerTick float64
}

func (l Linear) TicksToSeconds(ticks []uint64) []float64 {
	seconds := make([]float64, len(ticks))
	for i, t := range ticks {
		seconds[i] = float64(t) * l.SecondsPerTick
	}
	return seconds
}
