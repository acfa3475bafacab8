// Package savegame lists the scores recorded in an Etterna.xml savegame.
package savegame

import (
	"bytes"
	"encoding/xml"
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"git.lost.host/meutraa/eotw-stats/internal/aggregate"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"
)

type stats struct {
	Charts []chart `xml:"PlayerScores>Chart"`
}

type chart struct {
	Pack     string     `xml:"Pack,attr"`
	Song     string     `xml:"Song,attr"`
	ScoresAt []scoresAt `xml:"ScoresAt"`
}

type scoresAt struct {
	Rate   string  `xml:"Rate,attr"`
	Scores []entry `xml:"Score"`
}

type entry struct {
	Key            string `xml:"Key,attr"`
	SSRNormPercent string `xml:"SSRNormPercent"`
	WifeScore      string `xml:"WifeScore"`
}

// Load reads the savegame at path.
func Load(path string) ([]aggregate.Score, error) {
	data, err := ioutil.ReadFile(path)
	if nil != err {
		return nil, errors.Wrap(err, "unable to read savegame")
	}
	return Parse(data)
}

// Parse decodes a savegame as UTF-8, then as ISO-8859-1 when that fails.
// Scores come back in document order. A score without a usable rate or
// wifescore is dropped.
func Parse(data []byte) ([]aggregate.Score, error) {
	var s stats
	if err := decode(bytes.NewReader(data), &s, false); nil != err {
		s = stats{}
		if lerr := decode(bytes.NewReader(data), &s, true); nil != lerr {
			return nil, errors.Wrap(err, "unable to decode savegame")
		}
	}

	scores := []aggregate.Score{}
	for _, c := range s.Charts {
		for _, at := range c.ScoresAt {
			rate, err := strconv.ParseFloat(strings.TrimSpace(at.Rate), 64)
			if nil != err {
				continue
			}
			for _, e := range at.Scores {
				wifescore, ok := parseWifescore(e)
				if !ok || e.Key == "" {
					continue
				}
				scores = append(scores, aggregate.Score{
					Key:       e.Key,
					Wifescore: wifescore,
					Pack:      c.Pack,
					Song:      c.Song,
					Rate:      rate,
				})
			}
		}
	}
	return scores, nil
}

func parseWifescore(e entry) (float64, bool) {
	for _, v := range []string{e.SSRNormPercent, e.WifeScore} {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); nil == err {
			return f, true
		}
	}
	return 0, false
}

func decode(r io.Reader, v interface{}, latin1 bool) error {
	if latin1 {
		r = charmap.ISO8859_1.NewDecoder().Reader(r)
	}
	d := xml.NewDecoder(r)
	d.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		// Already transcoded, whatever the declaration claims
		if latin1 {
			return input, nil
		}
		switch strings.ToLower(label) {
		case "utf-8", "utf8":
			return input, nil
		case "iso-8859-1", "latin1", "latin-1":
			return charmap.ISO8859_1.NewDecoder().Reader(input), nil
		}
		return nil, errors.Errorf("unsupported charset %q", label)
	}
	return d.Decode(v)
}
