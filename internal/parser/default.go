package parser

import (
	"io/ioutil"
	"strconv"
	"strings"

	"git.lost.host/meutraa/eotw-stats/internal/game"
	"github.com/pkg/errors"
)

type DefaultParser struct{}

// ParseBPMs reads a BPM list in chart notation, "0.000=120.000,32.000=240.000".
func ParseBPMs(s string) ([]game.BPM, error) {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.TrimSuffix(strings.TrimSpace(s), ";")
	bpms := []game.BPM{}
	for _, bpm := range strings.Split(s, ",") {
		if strings.TrimSpace(bpm) == "" {
			continue
		}
		as := strings.Split(bpm, "=")
		if len(as) != 2 {
			return nil, errors.Errorf("malformed bpm %q", bpm)
		}
		sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
		if nil != err {
			return nil, errors.Wrapf(err, "bpm beat %q", as[0])
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return nil, errors.Wrapf(err, "bpm value %q", as[1])
		}
		bpms = append(bpms, game.BPM{
			StartingBeat: sb,
			Value:        value,
		})
	}
	return bpms, nil
}

// Parse reads the song header of a .sm or .ssc file. Only the first
// OFFSET and BPMS tags are used, per-chart timing in .ssc files is ignored.
func (p *DefaultParser) Parse(file string) (*game.SongTiming, error) {
	data, err := ioutil.ReadFile(file)
	if nil != err {
		return nil, errors.Wrap(err, "unable to read chart")
	}

	str := strings.ReplaceAll(string(data), "\r", "")
	meta := strings.SplitN(str, "#NOTES:", 2)[0]
	meta = strings.SplitN(meta, "#NOTEDATA:", 2)[0]

	timing := &game.SongTiming{}
	var haveOffset, haveBPMs bool

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimSpace(mdl)
		mdl = strings.TrimPrefix(mdl, "#")
		if end := strings.Index(mdl, ";"); end >= 0 {
			mdl = mdl[:end]
		}
		switch {
		case strings.HasPrefix(mdl, "TITLE:") && timing.Title == "":
			timing.Title = strings.TrimSpace(strings.TrimPrefix(mdl, "TITLE:"))
		case strings.HasPrefix(mdl, "OFFSET:") && !haveOffset:
			offs, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(mdl, "OFFSET:")), 64)
			if nil != err {
				return nil, errors.Wrapf(err, "%v: offset", file)
			}
			timing.Offset = offs
			haveOffset = true
		case strings.HasPrefix(mdl, "BPMS:") && !haveBPMs:
			bpms, err := ParseBPMs(strings.TrimPrefix(mdl, "BPMS:"))
			if nil != err {
				return nil, errors.Wrapf(err, "%v", file)
			}
			timing.BPMs = bpms
			haveBPMs = true
		}
	}

	if len(timing.BPMs) == 0 {
		return nil, errors.Errorf("%v: no bpms", file)
	}
	return timing, nil
}
