// Package replay reads the per-note lines of a replay file.
//
// A data line is "<tick> <deviation> <column>...", a line starting with H
// is a header. Lines that do not parse are skipped.
package replay

import (
	"bufio"
	"io"
	"math"
	"strconv"
)

const maxLineLength = 1 << 20

// Event is one hit read from a replay.
type Event struct {
	Tick      uint64
	Deviation float64 // seconds, negative is early
	Column    int
}

// Reader yields the events of a replay, in file order, in a single pass.
type Reader struct {
	scanner *bufio.Scanner
	event   Event
	err     error
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	return &Reader{scanner: scanner}
}

// Next advances to the next well formed data line.
func (r *Reader) Next() bool {
	for r.scanner.Scan() {
		if event, ok := ParseLine(r.scanner.Bytes()); ok {
			r.event = event
			return true
		}
	}
	r.err = r.scanner.Err()
	return false
}

func (r *Reader) Event() Event {
	return r.event
}

// Err returns the read error that stopped Next, if any.
func (r *Reader) Err() error {
	return r.err
}

// ParseLine parses a single line. Headers, blank lines and lines with a
// missing or malformed token report false.
func ParseLine(line []byte) (Event, bool) {
	if len(line) == 0 || line[0] == 'H' {
		return Event{}, false
	}

	var tokens [3][]byte
	n := 0
	for i := 0; i < len(line) && n < len(tokens); {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		start := i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		if i > start {
			tokens[n] = line[start:i]
			n++
		}
	}
	if n < len(tokens) {
		return Event{}, false
	}

	tick, err := strconv.ParseUint(string(tokens[0]), 10, 64)
	if nil != err {
		return Event{}, false
	}
	deviation, err := strconv.ParseFloat(string(tokens[1]), 64)
	if nil != err || math.IsNaN(deviation) || math.IsInf(deviation, 0) {
		return Event{}, false
	}
	c := tokens[2][0]
	if c < '0' || c > '9' {
		return Event{}, false
	}

	return Event{
		Tick:      tick,
		Deviation: deviation,
		Column:    int(c - '0'),
	}, true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r'
}
